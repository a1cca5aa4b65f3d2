package hcltask

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
)

var (
	ErrNoFiles        = errors.New("no .hcl task file found")
	ErrDuplicateBlock = errors.New("block declared more than once")
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL task loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges their blocks into
// one model. Blocks may be spread over files in any order; the robot and
// graph blocks must appear once overall.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(ctx, model, &root); err != nil {
			return nil, fmt.Errorf("in HCL file %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.",
		"constraints", len(model.Constraints), "locks", len(model.Locks),
		"grippers", len(model.Grippers), "objects", len(model.Objects),
		"states", len(model.States), "transitions", len(model.Transitions))
	return model, nil
}

// merge translates the blocks of one file and appends them to model.
func (l *Loader) merge(ctx context.Context, model *config.Model, root *fileRoot) error {
	for _, r := range root.Robots {
		if model.Robot != nil {
			return fmt.Errorf("%w: robot %q after robot %q", ErrDuplicateBlock, r.Name, model.Robot.Name)
		}
		model.Robot = translateRobot(r)
	}
	for _, g := range root.Graphs {
		if model.Graph != nil {
			return fmt.Errorf("%w: graph %q after graph %q", ErrDuplicateBlock, g.Name, model.Graph.Name)
		}
		model.Graph = translateGraph(g)
	}
	for _, c := range root.Constraints {
		def, err := translateConstraint(ctx, c)
		if err != nil {
			return err
		}
		model.Constraints = append(model.Constraints, def)
	}
	for _, lk := range root.Locks {
		def, err := translateLock(ctx, lk)
		if err != nil {
			return err
		}
		model.Locks = append(model.Locks, def)
	}
	for _, g := range root.Grippers {
		model.Grippers = append(model.Grippers, &config.Gripper{Name: g.Name, Joint: g.Joint, Clearance: g.Clearance})
	}
	for _, o := range root.Objects {
		model.Objects = append(model.Objects, translateObject(o))
	}
	for _, s := range root.States {
		model.States = append(model.States, translateState(s))
	}
	for _, t := range root.Transitions {
		model.Transitions = append(model.Transitions, translateTransition(t))
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // A missing path is reported as "no file found".
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
