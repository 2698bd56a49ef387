package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-a", "http://api"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-a", "http://api"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "order preserved",
			args:    []string{"-a", "x", "-d", "db.sqlite", "-t", "5"},
			allowed: []string{"-a", "-t"},
			want:    []string{"-a", "x", "-t", "5"},
		},
		{
			name:    "unknown flags ignored",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next argument is a flag",
			args:    []string{"-c", "-a"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "nil args",
			args:    nil,
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringFlag_ShortAndLongNames(t *testing.T) {
	assert.Equal(t, "a.json", stringFlag([]string{"-c", "a.json"}, "c", "config"))
	assert.Equal(t, "b.json", stringFlag([]string{"-a", "x", "-config=b.json"}, "c", "config"))
	assert.Equal(t, "c.json", stringFlag([]string{"--config", "c.json"}, "c", "config"))
	assert.Equal(t, "", stringFlag([]string{"-a", "x"}, "c", "config"))
}

func TestJSONConfigPathAndEnvFilePath_ReadOSArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"cli", "-a", "http://api", "-c", "cfg.json", "-e", ".env.local"}

	assert.Equal(t, "cfg.json", JSONConfigPath())
	assert.Equal(t, ".env.local", EnvFilePath())
}
