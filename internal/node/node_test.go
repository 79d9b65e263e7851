package node

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"media-loader/internal/filesystem"
	"media-loader/internal/loader"
	"media-loader/internal/mediatypes"
)

func TestLoadDefinition(t *testing.T) {
	def, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Function != "load_media" {
		t.Errorf("Function = %q", def.Function)
	}

	var outputs []string
	for _, o := range def.Outputs {
		outputs = append(outputs, o.Name)
	}
	want := []string{"image", "WIDTH", "HEIGHT", "COUNT", "FILE_NAME", "FILE_PATH", "FPS"}
	if len(outputs) != len(want) {
		t.Fatalf("outputs = %v, want %v", outputs, want)
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("output %d = %q, want %q", i, outputs[i], want[i])
		}
	}

	maxRes, ok := def.Input("max_res")
	if !ok || maxRes.Default != 2048 {
		t.Errorf("max_res default = %v", maxRes.Default)
	}
	sortIn, ok := def.Input("sort")
	if !ok || len(sortIn.Options) != len(loader.SortModes) {
		t.Errorf("sort options = %v", sortIn.Options)
	}

	if _, err := def.Marshal(); err != nil {
		t.Errorf("Marshal() error = %v", err)
	}
}

func TestParseDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "name: [unterminated"},
		{"missing function", "name: x\ninputs: [{name: a, type: INT}]\noutputs: [{name: o, type: INT}]"},
		{"duplicate input", "name: x\nfunction: f\ninputs: [{name: a, type: INT}, {name: a, type: INT}]\noutputs: [{name: o, type: INT}]"},
		{"combo without options", "name: x\nfunction: f\ninputs: [{name: a, type: COMBO}]\noutputs: [{name: o, type: INT}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseDefinition([]byte(tt.yaml)); err == nil {
				t.Error("parseDefinition() should fail")
			}
		})
	}
}

func TestBind(t *testing.T) {
	def, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	req, err := def.Bind(map[string]any{"path": "clip.mp4"})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	want := loader.Request{Path: "clip.mp4", MaxRes: 2048, Sort: loader.SortNone}
	if req != want {
		t.Errorf("Bind() = %+v, want %+v", req, want)
	}

	req, err = def.Bind(map[string]any{
		"path":           "frames",
		"image_load_cap": 12,
		"force_rate":     8,
		"max_res":        512.0,
		"sort":           "random",
	})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	want = loader.Request{Path: "frames", Cap: 12, Rate: 8, MaxRes: 512, Sort: loader.SortRandom}
	if req != want {
		t.Errorf("Bind() = %+v, want %+v", req, want)
	}
}

func TestBindErrors(t *testing.T) {
	def, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		values map[string]any
	}{
		{"missing path", map[string]any{}},
		{"negative cap", map[string]any{"path": "a", "image_load_cap": -1}},
		{"negative rate", map[string]any{"path": "a", "force_rate": -2.5}},
		{"fractional int", map[string]any{"path": "a", "max_res": 10.5}},
		{"wrong type", map[string]any{"path": 3}},
		{"unknown sort", map[string]any{"path": "a", "sort": "size"}},
		{"unknown input", map[string]any{"path": "a", "loop": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := def.Bind(tt.values); !errors.Is(err, mediatypes.ErrValidation) {
				t.Errorf("Bind() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestInvoke(t *testing.T) {
	input := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 30, 10))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	f, err := os.Create(filepath.Join(input, "wide.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l := loader.New(loader.Config{
		Roots: filesystem.NewRootResolver(map[string]string{filesystem.RootInput: input}),
	})

	out, err := Invoke(context.Background(), l, map[string]any{"path": "wide.png", "max_res": 15})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out.Width != 15 || out.Height != 5 || out.Count != 1 {
		t.Errorf("Invoke() = %dx%d x%d", out.Width, out.Height, out.Count)
	}
	if out.FileName != "wide" || out.FPS != 0 {
		t.Errorf("FileName = %q, FPS = %v", out.FileName, out.FPS)
	}

	values := out.Values()
	if len(values) != 7 || values[0] != out.Image {
		t.Errorf("Values() = %v", values)
	}
	if got := out.Image.RGBAt(0, 7, 2); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("pixel = %v, want white", got)
	}
}
