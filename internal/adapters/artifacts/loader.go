package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// Artifact directories searched in order: Foundry first, then Hardhat
var artifactDirs = []string{"out", "artifacts"}

// Library placeholder pattern: __$<34 hex chars>$__
var libraryPlaceholder = regexp.MustCompile(`__\$[a-fA-F0-9]{34}\$__`)

// rawArtifact covers both the Foundry and Hardhat artifact layouts
type rawArtifact struct {
	ContractName     string          `json:"contractName"` // hardhat
	SourceName       string          `json:"sourceName"`   // hardhat
	ABI              json.RawMessage `json:"abi"`
	Bytecode         json.RawMessage `json:"bytecode"`
	DeployedBytecode json.RawMessage `json:"deployedBytecode"`
	Metadata         json.RawMessage `json:"metadata"`
}

// foundryMetadata is the part of Foundry's metadata object we need
type foundryMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// Loader reads compiled contract artifacts from the project
type Loader struct {
	projectRoot string
	mu          sync.Mutex
	cache       map[string]*models.Artifact
}

// NewLoader creates a new artifact loader
func NewLoader(cfg *config.RuntimeConfig) *Loader {
	return &Loader{
		projectRoot: cfg.ProjectRoot,
		cache:       make(map[string]*models.Artifact),
	}
}

// Load finds and parses the artifact for contractName
func (l *Loader) Load(ctx context.Context, contractName string) (*models.Artifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if artifact, ok := l.cache[contractName]; ok {
		return artifact, nil
	}

	paths, err := l.find(contractName)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s (run forge build or npx hardhat compile)", domain.ErrArtifactNotFound, contractName)
	}
	if len(paths) > 1 {
		return nil, fmt.Errorf("multiple artifacts found for %s: %s", contractName, strings.Join(paths, ", "))
	}

	artifact, err := l.parse(contractName, paths[0])
	if err != nil {
		return nil, err
	}
	l.cache[contractName] = artifact
	return artifact, nil
}

// find returns artifact files named <contractName>.json in the first artifact directory that has any
func (l *Loader) find(contractName string) ([]string, error) {
	target := contractName + ".json"

	for _, dir := range artifactDirs {
		root := filepath.Join(l.projectRoot, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		var matches []string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() == target {
				matches = append(matches, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}

	return nil, nil
}

// parse decodes an artifact file
func (l *Loader) parse(contractName, path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", contractName, err)
	}

	bytecodeHex, err := bytecodeObject(raw.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}
	if libraryPlaceholder.MatchString(bytecodeHex) {
		return nil, fmt.Errorf("%s requires linked libraries, which are not supported", contractName)
	}
	bytecode, err := hexutil.Decode(ensure0x(bytecodeHex))
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}
	if len(bytecode) == 0 {
		return nil, fmt.Errorf("%s has no bytecode (abstract contract or interface?)", contractName)
	}

	deployed := []byte{}
	if len(raw.DeployedBytecode) > 0 {
		deployedHex, err := bytecodeObject(raw.DeployedBytecode)
		if err != nil {
			return nil, fmt.Errorf("invalid deployedBytecode in %s: %w", path, err)
		}
		if deployedHex != "" {
			deployed, err = hexutil.Decode(ensure0x(deployedHex))
			if err != nil {
				return nil, fmt.Errorf("invalid deployedBytecode in %s: %w", path, err)
			}
		}
	}

	artifactPath, err := filepath.Rel(l.projectRoot, path)
	if err != nil {
		artifactPath = path
	}

	artifact := &models.Artifact{
		ContractName:     contractName,
		SourceName:       raw.SourceName,
		ArtifactPath:     artifactPath,
		RawABI:           raw.ABI,
		ABI:              parsedABI,
		Bytecode:         bytecode,
		DeployedBytecode: deployed,
	}
	artifact.ImmutableRanges, artifact.ImmutablesKnown = immutableRanges(raw.DeployedBytecode)

	if len(raw.Metadata) > 0 {
		var meta foundryMetadata
		if err := json.Unmarshal(raw.Metadata, &meta); err == nil {
			artifact.CompilerVersion = meta.Compiler.Version
			for source, name := range meta.Settings.CompilationTarget {
				if name == contractName {
					artifact.SourceName = source
				}
			}
		}
	}

	return artifact, nil
}

// bytecodeObject accepts both "0x…" (Hardhat) and {"object": "0x…"} (Foundry)
func bytecodeObject(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("missing bytecode")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return obj.Object, nil
}

// immutableRanges reads Foundry's deployedBytecode.immutableReferences
func immutableRanges(raw json.RawMessage) ([]models.CodeRange, bool) {
	var obj struct {
		ImmutableReferences map[string][]models.CodeRange `json:"immutableReferences"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.ImmutableReferences == nil {
		return nil, false
	}

	var ranges []models.CodeRange
	for _, refs := range obj.ImmutableReferences {
		ranges = append(ranges, refs...)
	}
	return ranges, true
}

func ensure0x(s string) string {
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

var _ usecase.ArtifactLoader = (*Loader)(nil)
