package flags

import (
	"os"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := HomeDir()
	os.Setenv("DDC_TEST_DIR", "/var/lib/ddc")
	defer os.Unsetenv("DDC_TEST_DIR")

	tests := []struct{ in, want string }{
		{"/tmp/ddc", "/tmp/ddc"},
		{"~/ddc", home + "/ddc"},
		{"$DDC_TEST_DIR/state", "/var/lib/ddc/state"},
		{"/a/../b/./c", "/b/c"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
