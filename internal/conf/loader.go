package conf

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/modevo/modevo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// HCLLoader parses run configuration written in HCL.
type HCLLoader struct{}

// NewHCLLoader returns a loader for .hcl run configurations.
func NewHCLLoader() *HCLLoader { return &HCLLoader{} }

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "run"},
		{Type: "population", LabelNames: []string{"name"}},
		{Type: "module", LabelNames: []string{"name"}},
		{Type: "event"},
	},
}

type runBlock struct {
	Ticks *uint64 `hcl:"ticks"`
	Seed  *int64  `hcl:"seed"`
}

type populationBlock struct {
	Size int `hcl:"size"`
}

type eventBlock struct {
	At         uint64  `hcl:"at"`
	Action     string  `hcl:"action"`
	Module     *string `hcl:"module"`
	Population *string `hcl:"population"`
	Count      *int    `hcl:"count"`
}

// Load reads and parses a configuration file.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading run configuration.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, diags)
	}
	return l.decode(ctx, file)
}

// Parse decodes configuration held in memory; tests and the integration
// harness feed HCL source directly.
func (l *HCLLoader) Parse(ctx context.Context, src []byte, filename string) (*Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return l.decode(ctx, file)
}

func (l *HCLLoader) decode(ctx context.Context, file *hcl.File) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid config structure: %w", diags)
	}

	model := &Model{Run: Run{Ticks: 100}}
	seenRun := false

	for _, block := range content.Blocks {
		switch block.Type {
		case "run":
			if seenRun {
				return nil, fmt.Errorf("duplicate run block at %s", block.DefRange)
			}
			seenRun = true
			var rb runBlock
			if diags := gohcl.DecodeBody(block.Body, nil, &rb); diags.HasErrors() {
				return nil, fmt.Errorf("invalid run block: %w", diags)
			}
			if rb.Ticks != nil {
				model.Run.Ticks = *rb.Ticks
			}
			if rb.Seed != nil {
				model.Run.Seed = *rb.Seed
			}

		case "population":
			var pb populationBlock
			if diags := gohcl.DecodeBody(block.Body, nil, &pb); diags.HasErrors() {
				return nil, fmt.Errorf("invalid population block %q: %w", block.Labels[0], diags)
			}
			if pb.Size < 0 {
				return nil, fmt.Errorf("population %q: size must not be negative", block.Labels[0])
			}
			model.Populations = append(model.Populations, PopulationDef{
				Name: block.Labels[0],
				Size: pb.Size,
			})

		case "module":
			md, err := decodeModule(block)
			if err != nil {
				return nil, err
			}
			model.Modules = append(model.Modules, md)

		case "event":
			var eb eventBlock
			if diags := gohcl.DecodeBody(block.Body, nil, &eb); diags.HasErrors() {
				return nil, fmt.Errorf("invalid event block: %w", diags)
			}
			ev := EventDef{At: eb.At, Action: eb.Action, Count: 1}
			if eb.Module != nil {
				ev.Module = *eb.Module
			}
			if eb.Population != nil {
				ev.Population = *eb.Population
			}
			if eb.Count != nil {
				ev.Count = *eb.Count
			}
			switch ev.Action {
			case ActionExit, ActionInject, ActionReport:
			default:
				return nil, fmt.Errorf("event at tick %d: unknown action %q", ev.At, ev.Action)
			}
			model.Events = append(model.Events, ev)
		}
	}

	logger.Debug("Run configuration decoded.",
		"populations", len(model.Populations),
		"modules", len(model.Modules),
		"events", len(model.Events),
	)
	return model, nil
}

var moduleSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{{Name: "type", Required: true}},
	Blocks:     []hcl.BlockHeaderSchema{{Type: "params"}},
}

// decodeModule reads a module block's required type attribute and evaluates
// every attribute of its params block into a plain cty value. The param set
// is open-ended here; the module's config scope validates names and types
// later, once scopes are declared.
func decodeModule(block *hcl.Block) (ModuleDef, error) {
	md := ModuleDef{Name: block.Labels[0]}

	content, diags := block.Body.Content(moduleSchema)
	if diags.HasErrors() {
		return md, fmt.Errorf("module %q: %w", md.Name, diags)
	}
	typeVal, diags := content.Attributes["type"].Expr.Value(nil)
	if diags.HasErrors() {
		return md, fmt.Errorf("module %q type: %w", md.Name, diags)
	}
	if typeVal.Type() != cty.String {
		return md, fmt.Errorf("module %q: type must be a string", md.Name)
	}
	md.Type = typeVal.AsString()

	md.Params = make(map[string]cty.Value)
	for _, pb := range content.Blocks {
		attrs, diags := pb.Body.JustAttributes()
		if diags.HasErrors() {
			return md, fmt.Errorf("module %q params: %w", md.Name, diags)
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return md, fmt.Errorf("module %q param %q: %w", md.Name, name, diags)
			}
			md.Params[name] = val
		}
	}
	return md, nil
}
