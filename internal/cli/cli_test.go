package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	m2kerrors "github.com/matzehuels/m2k/pkg/errors"
	"github.com/matzehuels/m2k/pkg/graph"
)

const testScene = "testdata/scene.toml"

// execute runs the root command with an isolated config directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCopyStdout(t *testing.T) {
	out, _, err := execute(t, "copy", "--scene", testScene, "--stdout")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !strings.HasPrefix(out, `<katana><node name="__SAVE_exportedNodes" type="Group">`) {
		t.Errorf("stdout = %.100s", out)
	}
	up, end := strings.Index(out, `name="NWM_UP"`), strings.Index(out, `name="NWM_END"`)
	if up < 0 || end < 0 || up > end {
		t.Errorf("NWM_UP should be emitted before NWM_END")
	}
	if strings.Contains(out, "Copied") {
		t.Error("status line written to stdout")
	}
}

func TestCopyOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes", "network.xml")
	out, _, err := execute(t, "copy", "--scene", testScene, "--output", path, "--indent", "2")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !strings.Contains(out, "Copied 2 nodes") {
		t.Errorf("status = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  <node") {
		t.Errorf("document not indented: %.120s", data)
	}
}

func TestCopySelectOrphan(t *testing.T) {
	out, _, err := execute(t, "copy", "--scene", testScene, "--select", "test_texture", "--stdout")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if !strings.Contains(out, `name="test_texture"`) || strings.Contains(out, `name="NWM_END"`) {
		t.Errorf("orphan document = %s", out)
	}
}

func TestCopyErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code m2kerrors.Code
		msg  string
	}{
		{"no scene", []string{"copy", "--stdout"}, m2kerrors.ErrCodeInvalidInput, ""},
		{"missing scene", []string{"copy", "--scene", "testdata/nope.toml", "--stdout"}, m2kerrors.ErrCodeFileNotFound, ""},
		{"unknown node", []string{"copy", "--scene", testScene, "--select", "ghost", "--stdout"}, m2kerrors.ErrCodeNodeNotFound, ""},
		{"missing templates", []string{"copy", "--scene", testScene, "--templates", "testdata/none", "--stdout"}, m2kerrors.ErrCodeFileNotFound, ""},
		{"conflicting sinks", []string{"copy", "--scene", testScene, "--stdout", "-o", "x.xml"}, "", "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.code != "" && m2kerrors.GetCode(err) != tt.code {
				t.Errorf("code = %q, want %q (%v)", m2kerrors.GetCode(err), tt.code, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want %q", err, tt.msg)
			}
			if strings.Contains(out, "<katana>") {
				t.Error("failed copy wrote a document")
			}
		})
	}
}

func TestInspect(t *testing.T) {
	out, _, err := execute(t, "inspect", "--scene", testScene)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"NWM_UP", "NWM_END", "260, 0", "specularRoughness = 1", "terminal", "Outputs"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectJSON(t *testing.T) {
	out, _, err := execute(t, "inspect", "--scene", testScene, "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	layout, err := graph.UnmarshalLayout([]byte(out))
	if err != nil {
		t.Fatalf("inspect --json output: %v", err)
	}
	if len(layout.Nodes) != 2 || layout.MaxDepth != 1 {
		t.Errorf("layout = %+v", layout)
	}
	if p, _ := layout.Node("NWM_UP"); p.Overrides["filter"] != "2" {
		t.Errorf("NWM_UP overrides = %v", p.Overrides)
	}
}

func TestInspectOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if _, _, err := execute(t, "inspect", "--scene", testScene, "-o", path); err != nil {
		t.Fatal(err)
	}
	layout, err := graph.ReadLayoutFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := layout.Node("NWM_END"); !ok {
		t.Error("report missing NWM_END")
	}
}

func TestVisualize(t *testing.T) {
	out, _, err := execute(t, "visualize", "--scene", testScene, "--ports")
	if err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if !strings.Contains(out, `"NWM_UP" -> "NWM_END"`) || !strings.Contains(out, "resultRGB -> diffuseColor") {
		t.Errorf("DOT = %s", out)
	}

	if _, _, err := execute(t, "visualize", "--scene", testScene, "--format", "png"); err == nil {
		t.Error("png format should be rejected")
	}
}

func TestTemplatesCommand(t *testing.T) {
	out, _, err := execute(t, "templates")
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	for _, want := range []string{"PxrSurface", "PxrChecker", "embedded"} {
		if !strings.Contains(out, want) {
			t.Errorf("templates output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "m2k") {
		t.Error("bash completion does not mention m2k")
	}
	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell accepted")
	}
}
