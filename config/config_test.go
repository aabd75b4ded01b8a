package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kruskalctl/config"
	"github.com/katalvlaran/kruskalctl/prim_kruskal"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)
	assert.EqualValues(t, 1, c.Weight.Min)
	assert.EqualValues(t, 10, c.Weight.Max)
	assert.Zero(t, c.Weight.Seed)
	assert.Equal(t, prim_kruskal.MethodKruskal, c.MST.Method)
	assert.True(t, c.Controller.ClearMACsOnRebuild)
	assert.EqualValues(t, 1, c.Controller.FlowPriority)
	assert.EqualValues(t, 0, c.Controller.MissPriority)
	assert.True(t, c.Topology.Watch)
	assert.Equal(t, 2*time.Second, c.Topology.ReloadTimeout)
	assert.Empty(t, c.Web.Addr)
}

func TestLoad_Precedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "kruskalctl.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
log:
  level: debug
weight:
  min: 2
  max: 20
mst:
  method: prim
`), 0o600))

	t.Setenv("KRUSKALCTL_WEIGHT_MAX", "30")
	t.Setenv("KRUSKALCTL_CONTROLLER_CLEAR_MACS_ON_REBUILD", "false")

	fs := config.Flags()
	require.NoError(t, fs.Parse([]string{"--weight-max=40", "--web-addr=127.0.0.1:9090"}))

	v, err := config.NewViper(fs)
	require.NoError(t, err)
	c, err := config.Load(v, file)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)            // file
	assert.EqualValues(t, 2, c.Weight.Min)           // file
	assert.EqualValues(t, 40, c.Weight.Max)          // flag over env over file
	assert.False(t, c.Controller.ClearMACsOnRebuild) // env
	assert.Equal(t, "prim", c.MST.Method)
	assert.Equal(t, "127.0.0.1:9090", c.Web.Addr)
}

func TestLoad_EnvOverFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "kruskalctl.toml")
	require.NoError(t, os.WriteFile(file, []byte("[weight]\nmax = 20\n"), 0o600))
	t.Setenv("KRUSKALCTL_WEIGHT_MAX", "30")

	v, err := config.NewViper(config.Flags())
	require.NoError(t, err)
	c, err := config.Load(v, file)
	require.NoError(t, err)
	assert.EqualValues(t, 30, c.Weight.Max)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][]string{
		"min above max":        {"--weight-min=5", "--weight-max=4"},
		"zero min":             {"--weight-min=0"},
		"unknown method":       {"--mst-method=boruvka"},
		"unknown level":        {"--log-level=loud"},
		"unknown format":       {"--log-format=xml"},
		"miss above flow":      {"--controller-miss-priority=3", "--controller-flow-priority=2"},
		"address without port": {"--web-addr=localhost"},
		"flow priority wraps":  {"--controller-flow-priority=65537"},
		"miss priority wraps":  {"--controller-miss-priority=65536", "--controller-flow-priority=2"},
		"negative miss":        {"--controller-miss-priority=-1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			fs := config.Flags()
			require.NoError(t, fs.Parse(args))
			v, err := config.NewViper(fs)
			require.NoError(t, err)
			_, err = config.Load(v, "")
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad_PriorityUpperBound(t *testing.T) {
	fs := config.Flags()
	require.NoError(t, fs.Parse([]string{"--controller-flow-priority=65535", "--controller-miss-priority=65534"}))
	v, err := config.NewViper(fs)
	require.NoError(t, err)
	c, err := config.Load(v, "")
	require.NoError(t, err)

	opts := c.ControllerOptions(nil, nil)
	assert.Equal(t, uint16(65535), opts.FlowPriority)
	assert.Equal(t, uint16(65534), opts.MissPriority)
}

func TestLoad_MissingFile(t *testing.T) {
	v, err := config.NewViper(nil)
	require.NoError(t, err)
	_, err = config.Load(v, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFlags_CoverEveryKey(t *testing.T) {
	fs := config.Flags()
	for _, key := range config.Keys() {
		assert.NotNil(t, fs.Lookup(config.FlagName(key)), key)
	}
	assert.Equal(t, "controller-clear-macs-on-rebuild", config.FlagName("controller.clear-macs-on-rebuild"))
}

func TestConversions(t *testing.T) {
	c := config.Default()
	c.Weight.Min, c.Weight.Max, c.Weight.Seed = 4, 4, 7
	c.MST.Method = prim_kruskal.MethodPrim
	c.Topology.File = "topo.yaml"

	assert.EqualValues(t, 4, c.WeightProvider().Next())

	opts := c.ControllerOptions(nil, nil)
	assert.Equal(t, prim_kruskal.MethodPrim, opts.MST.Method)
	assert.True(t, opts.ClearMACsOnRebuild)
	assert.EqualValues(t, 1, opts.FlowPriority)

	assert.Equal(t, "topo.yaml", c.FileProviderOptions(nil, nil).Path)
	assert.Equal(t, "info", c.LoggingOptions().Level)
}
