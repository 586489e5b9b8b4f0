package usecase

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

var (
	testDeployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testAddress  = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockRepository is an in-memory DeploymentRepository
type mockRepository struct {
	deployments map[string]*models.Deployment
	saves       int
	listErr     error
}

func newMockRepository(deps ...*models.Deployment) *mockRepository {
	r := &mockRepository{deployments: make(map[string]*models.Deployment)}
	for _, d := range deps {
		r.deployments[d.ID()] = d
	}
	return r
}

func (r *mockRepository) Get(ctx context.Context, network, name string) (*models.Deployment, error) {
	d, ok := r.deployments[network+"/"+name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *mockRepository) GetByAddress(ctx context.Context, network, address string) (*models.Deployment, error) {
	for _, d := range r.deployments {
		if d.Network == network && strings.EqualFold(d.Address, address) {
			clone := *d
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *mockRepository) Save(ctx context.Context, d *models.Deployment) error {
	r.saves++
	clone := *d
	r.deployments[d.ID()] = &clone
	return nil
}

func (r *mockRepository) List(ctx context.Context, network string) ([]*models.Deployment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []*models.Deployment
	for _, d := range r.deployments {
		if network == "" || d.Network == network {
			clone := *d
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result, nil
}

func (r *mockRepository) Networks(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var names []string
	for _, d := range r.deployments {
		if !seen[d.Network] {
			seen[d.Network] = true
			names = append(names, d.Network)
		}
	}
	sort.Strings(names)
	return names, nil
}

// mockSession deploys into the repository without a chain
type mockSession struct {
	network  string
	repo     *mockRepository
	out      io.Writer
	recorded []*models.Deployment
	closed   bool
	deployFn func(ctx context.Context, name string, opts domain.DeployOptions) (*models.Deployment, error)
}

func (s *mockSession) Deploy(ctx context.Context, name string, opts domain.DeployOptions) (*models.Deployment, error) {
	if s.deployFn != nil {
		return s.deployFn(ctx, name, opts)
	}
	d := &models.Deployment{
		ContractName: name,
		Network:      s.network,
		Address:      testAddress.Hex(),
		Deployer:     opts.From.Hex(),
		Args:         models.FormatArgs(opts.Args),
		Artifact:     models.ArtifactInfo{Path: "contracts/" + name + ".sol"},
		Verification: models.VerificationInfo{Status: models.VerificationStatusUnverified},
		Newly:        true,
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.recorded = append(s.recorded, d)
	return d, nil
}

func (s *mockSession) Log(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *mockSession) Recorded() []*models.Deployment {
	return append([]*models.Deployment(nil), s.recorded...)
}

func (s *mockSession) Close() { s.closed = true }

type mockProvider struct {
	repo    *mockRepository
	session *mockSession
	opened  int
	openErr error
}

func (p *mockProvider) Open(ctx context.Context, network *config.Network, out io.Writer) (DeploymentSession, error) {
	p.opened++
	if p.openErr != nil {
		return nil, p.openErr
	}
	if p.session == nil {
		p.session = &mockSession{}
	}
	p.session.network = network.Name
	p.session.repo = p.repo
	p.session.out = out
	return p.session, nil
}

type mockAccounts struct{}

func (mockAccounts) NamedAccounts(ctx context.Context, network string) (domain.NamedAccounts, error) {
	return domain.NamedAccounts{domain.DeployerRole: testDeployer}, nil
}

func (mockAccounts) Signer(ctx context.Context, address common.Address) (*ecdsa.PrivateKey, error) {
	return nil, domain.ErrNoSigner
}

func (mockAccounts) FundedAccounts() []common.Address { return nil }

type mockVerifier struct {
	calls    []*models.Deployment
	verifyFn func(ctx context.Context, d *models.Deployment, network *config.Network) error
}

func (v *mockVerifier) Verify(ctx context.Context, d *models.Deployment, network *config.Network) error {
	v.calls = append(v.calls, d)
	if v.verifyFn != nil {
		return v.verifyFn(ctx, d, network)
	}
	d.Verification.Status = models.VerificationStatusVerified
	return nil
}

type mockConfirmer struct {
	answer         bool
	nonInteractive bool
	prompts        []string
}

func (c *mockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	if c.nonInteractive {
		return false, nil
	}
	return c.answer, nil
}

type mockSelector struct {
	offered []*models.Deployment
	pick    int
}

func (s *mockSelector) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	s.offered = deployments
	return deployments[s.pick], nil
}

// recordingProgress keeps every message sent to it
type recordingProgress struct {
	events []ProgressEvent
	infos  []string
	errors []string
}

func (p *recordingProgress) OnProgress(ctx context.Context, event ProgressEvent) {
	p.events = append(p.events, event)
}
func (p *recordingProgress) Info(message string)  { p.infos = append(p.infos, message) }
func (p *recordingProgress) Error(message string) { p.errors = append(p.errors, message) }

type mockResolver struct {
	networks map[string]*config.Network
	order    []string
}

func (r *mockResolver) Networks() []string { return r.order }

func (r *mockResolver) Resolve(name string) (*config.Network, error) {
	n, ok := r.networks[name]
	if !ok {
		return nil, domain.UnknownNetworkError{Name: name}
	}
	return n, nil
}
