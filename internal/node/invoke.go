package node

import (
	"context"
	"fmt"
	"math"
	"slices"

	"media-loader/internal/loader"
	"media-loader/internal/media"
	"media-loader/internal/mediatypes"
)

// Outputs are the node's results in declaration order.
type Outputs struct {
	Image    *media.Batch
	Width    int
	Height   int
	Count    int
	FileName string
	FilePath string
	FPS      float64
}

// Values returns the outputs as a tuple matching Definition.Outputs.
func (o *Outputs) Values() []any {
	return []any{o.Image, o.Width, o.Height, o.Count, o.FileName, o.FilePath, o.FPS}
}

// Bind checks values against the definition, fills in defaults and builds a
// loader request. Unknown keys are rejected.
func (d *Definition) Bind(values map[string]any) (loader.Request, error) {
	for k := range values {
		if _, ok := d.Input(k); !ok {
			return loader.Request{}, fmt.Errorf("%w: unknown input %q", mediatypes.ErrValidation, k)
		}
	}

	resolved := make(map[string]any, len(d.Inputs))
	for _, in := range d.Inputs {
		v, ok := values[in.Name]
		if !ok {
			if in.Default == nil {
				return loader.Request{}, fmt.Errorf("%w: missing required input %q", mediatypes.ErrValidation, in.Name)
			}
			v = in.Default
		}
		cv, err := in.coerce(v)
		if err != nil {
			return loader.Request{}, err
		}
		resolved[in.Name] = cv
	}

	sort, err := loader.ParseSortMode(resolved["sort"].(string))
	if err != nil {
		return loader.Request{}, err
	}

	return loader.Request{
		Path:   resolved["path"].(string),
		Cap:    resolved["image_load_cap"].(int),
		Rate:   resolved["force_rate"].(float64),
		MaxRes: resolved["max_res"].(int),
		Sort:   sort,
	}, nil
}

// coerce converts v to the input's Go type and applies its bounds.
func (in Input) coerce(v any) (any, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: input %q: %s", mediatypes.ErrValidation, in.Name, fmt.Sprintf(format, args...))
	}

	switch in.Type {
	case "STRING":
		s, ok := v.(string)
		if !ok {
			return nil, invalid("expected a string, got %T", v)
		}
		return s, nil

	case "COMBO":
		s, ok := v.(string)
		if !ok {
			return nil, invalid("expected a string, got %T", v)
		}
		if !slices.Contains(in.Options, s) {
			return nil, invalid("%q is not one of %v", s, in.Options)
		}
		return s, nil

	case "INT":
		var n int
		switch x := v.(type) {
		case int:
			n = x
		case int64:
			n = int(x)
		case float64:
			if x != math.Trunc(x) {
				return nil, invalid("expected an integer, got %v", x)
			}
			n = int(x)
		default:
			return nil, invalid("expected an integer, got %T", v)
		}
		if err := in.checkBounds(float64(n)); err != nil {
			return nil, err
		}
		return n, nil

	case "FLOAT":
		var f float64
		switch x := v.(type) {
		case float64:
			f = x
		case float32:
			f = float64(x)
		case int:
			f = float64(x)
		case int64:
			f = float64(x)
		default:
			return nil, invalid("expected a number, got %T", v)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalid("expected a finite number, got %v", f)
		}
		if err := in.checkBounds(f); err != nil {
			return nil, err
		}
		return f, nil
	}

	return nil, invalid("unsupported type %s", in.Type)
}

func (in Input) checkBounds(v float64) error {
	if in.Min != nil && v < *in.Min {
		return fmt.Errorf("%w: input %q must be at least %v, got %v", mediatypes.ErrValidation, in.Name, *in.Min, v)
	}
	if in.Max != nil && v > *in.Max {
		return fmt.Errorf("%w: input %q must be at most %v, got %v", mediatypes.ErrValidation, in.Name, *in.Max, v)
	}
	return nil
}

// Invoke runs the node: it binds values and loads the media.
func Invoke(ctx context.Context, l *loader.Loader, values map[string]any) (*Outputs, error) {
	def, err := Load()
	if err != nil {
		return nil, err
	}
	req, err := def.Bind(values)
	if err != nil {
		return nil, err
	}

	res, err := l.Load(ctx, req)
	if err != nil {
		return nil, err
	}

	return &Outputs{
		Image:    res.Batch,
		Width:    res.Width,
		Height:   res.Height,
		Count:    res.Count,
		FileName: res.Name,
		FilePath: res.Path,
		FPS:      res.FrameRate,
	}, nil
}
