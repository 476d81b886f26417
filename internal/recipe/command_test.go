package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   Command
	}{
		{"bare name", []string{"gc"}, Command{Name: "gc", Params: []string{}}},
		{"with params", []string{"lowpass", "30e6", "5e6"}, Command{Name: "lowpass", Params: []string{"30e6", "5e6"}}},
		{"empty", nil, Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.fields)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, len(tt.want.Params), len(got.Params))
			for i := range tt.want.Params {
				assert.Equal(t, tt.want.Params[i], got.Params[i])
			}
		})
	}
}

func TestParseCommandString(t *testing.T) {
	cmd := ParseCommandString("  mult   3.5 ")
	assert.Equal(t, "mult", cmd.Name)
	assert.Equal(t, []string{"3.5"}, cmd.Params)
	assert.Equal(t, "mult 3.5", cmd.String())
	assert.Equal(t, "gc", NewCommand("gc").String())
}

func TestCommandFrom(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    Command
		wantErr bool
	}{
		{name: "string is a bare name", value: "mult 3.5", want: Command{Name: "mult 3.5"}},
		{name: "string list", value: []string{"fkmig", "2.6"}, want: Command{Name: "fkmig", Params: []string{"2.6"}}},
		{name: "yaml list", value: []any{"mult", 3.5}, want: Command{Name: "mult", Params: []string{"3.5"}}},
		{name: "yaml integer", value: []any{"lowpass_td", 11}, want: Command{Name: "lowpass_td", Params: []string{"11"}}},
		{name: "command passthrough", value: NewCommand("gc"), want: Command{Name: "gc"}},
		{name: "empty list", value: []any{}, wantErr: true},
		{name: "non-string name", value: []any{1, 2}, wantErr: true},
		{name: "unsupported", value: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CommandFrom(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.ElementsMatch(t, tt.want.Params, got.Params)
		})
	}
}
