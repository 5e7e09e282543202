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
			args:    []string{"-d", "desk.db", "-r", "redis:6379"},
			allowed: []string{"-d"},
			want:    []string{"-d", "desk.db"},
		},
		{
			name:    "joined value",
			args:    []string{"-t=30", "-d", "desk.db"},
			allowed: []string{"-t"},
			want:    []string{"-t=30"},
		},
		{
			name:    "order preserved across forms",
			args:    []string{"-config=a.json", "-c", "b.json", "-x", "1"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=a.json", "-c", "b.json"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"-x", "1", "--y=2", "today"},
			allowed: []string{"-d"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "next flag is not taken as value",
			args:    []string{"-d", "-t=5"},
			allowed: []string{"-d", "-t"},
			want:    []string{"-d", "-t=5"},
		},
		{
			name:    "value with equals sign inside joined form",
			args:    []string{"-d=host=db user=desk"},
			allowed: []string{"-d"},
			want:    []string{"-d=host=db user=desk"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-d"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "desk.json", ConfigPath([]string{"-c", "desk.json"}))
	assert.Equal(t, "desk.json", ConfigPath([]string{"-config=desk.json", "-d", "x.db"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-c", "a.json", "-config", "b.json"}))
	assert.Empty(t, ConfigPath([]string{"-d", "x.db"}))
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"desk", "-t", "30", "-c", "/etc/desk.json"}
	assert.Equal(t, "/etc/desk.json", JsonConfigFlags())

	os.Args = []string{"desk"}
	assert.Empty(t, JsonConfigFlags())
}
