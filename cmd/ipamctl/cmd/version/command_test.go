package version

import (
	"bytes"
	"testing"

	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
)

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(&appcontext.MockContext{
		Writer:      &out,
		VersionFunc: func() string { return "1.2.3" },
	})
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if got := out.String(); got != "ipamctl 1.2.3\n" {
		t.Errorf("output = %q, want %q", got, "ipamctl 1.2.3\n")
	}
}

func TestVersionVerbose(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(&appcontext.MockContext{
		Writer:     &out,
		CommitFunc: func() string { return "abc123" },
	})
	cmd.Flags().BoolP("verbose", "v", false, "")
	cmd.SetArgs([]string{"-v"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("commit: abc123")) {
		t.Errorf("verbose output missing commit: %q", out.String())
	}
}
