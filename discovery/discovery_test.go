package discovery_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/kruskalctl/builder"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/discovery"
)

const triangleYAML = `
switches:
  - id: 1
    ports: [{no: 1}, {no: 2, hw_addr: "0a:00:00:00:01:02"}]
  - id: 2
    ports: [{no: 1}, {no: 2}]
  - id: 3
    ports: [{no: 1}, {no: 2}]
links:
  - {src: 1, src_port: 1, dst: 2, dst_port: 1, bidirectional: true}
  - {src: 2, src_port: 2, dst: 3, dst_port: 1, bidirectional: true}
  - {src: 1, src_port: 2, dst: 3, dst_port: 2}
`

func TestParse(t *testing.T) {
	snap, err := discovery.Parse([]byte(triangleYAML))
	require.NoError(t, err)

	require.Len(t, snap.Switches, 3)
	assert.Equal(t, core.SwitchID(1), snap.Switches[0].ID)
	assert.Equal(t, builder.DefaultHWAddr(1, 1), snap.Switches[0].Ports[0].HWAddr)
	assert.Equal(t, "0a:00:00:00:01:02", snap.Switches[0].Ports[1].HWAddr.String())

	assert.Len(t, snap.Links, 5)
	assert.Equal(t, core.LinkSpec{Src: 2, SrcPort: 1, Dst: 1, DstPort: 1}, snap.Links[1])
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"bad yaml":       `switches: [`,
		"zero id":        "switches: [{id: 0}]",
		"zero port":      "switches: [{id: 1, ports: [{no: 0}]}]",
		"bad mac":        `switches: [{id: 1, ports: [{no: 1, hw_addr: "zz"}]}]`,
		"self link":      "switches: [{id: 1}]\nlinks: [{src: 1, src_port: 1, dst: 1, dst_port: 2}]",
		"link zero port": "switches: [{id: 1}]\nlinks: [{src: 1, src_port: 0, dst: 2, dst_port: 2}]",
	}
	for name, doc := range cases {
		_, err := discovery.Parse([]byte(doc))
		assert.ErrorIs(t, err, discovery.ErrInvalidTopology, name)
	}

	_, err := discovery.Parse([]byte("switches: [{id: 1}, {id: 1}]"))
	assert.ErrorIs(t, err, discovery.ErrDuplicateSwitch)
}

func TestMarshalParse(t *testing.T) {
	f, err := builder.BuildFabric([]builder.BuilderOption{builder.WithHostPorts(1)}, builder.Wheel(5))
	require.NoError(t, err)

	data, err := discovery.Marshal(discovery.Snapshot{Switches: f.Switches, Links: f.Links})
	require.NoError(t, err)
	snap, err := discovery.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f.Switches, snap.Switches)
	assert.Equal(t, f.Links, snap.Links)
}

func TestStaticProvider(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := discovery.NewStaticProvider(discovery.Snapshot{Switches: []core.Switch{{ID: 1}}})
	got, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Switches, 1)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	require.NoError(t, err)
	assert.Len(t, (<-ch).Switches, 1)

	p.Set(discovery.Snapshot{Switches: []core.Switch{{ID: 1}, {ID: 2}}})
	select {
	case s := <-ch:
		assert.Len(t, s.Switches, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no update")
	}

	cancel()
	for range ch {
	}
}

func TestFileProvider(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte(triangleYAML), 0o600))

	p, err := discovery.NewFileProvider(discovery.FileProviderOptions{Path: path, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)

	snap, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Switches, 3)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Watch(ctx)
	require.NoError(t, err)
	first := <-ch
	assert.Len(t, first.Links, 5)

	two := "switches: [{id: 1, ports: [{no: 1}]}, {id: 2, ports: [{no: 1}]}]\n" +
		"links: [{src: 1, src_port: 1, dst: 2, dst_port: 1, bidirectional: true}]\n"
	tmp := filepath.Join(dir, "topology.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(two), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	deadline := time.After(10 * time.Second)
	for updated := false; !updated; {
		select {
		case s := <-ch:
			updated = len(s.Switches) == 2
		case <-deadline:
			t.Fatal("file change not observed")
		}
	}

	cancel()
	for range ch {
	}
}

func TestNewFileProvider_Missing(t *testing.T) {
	_, err := discovery.NewFileProvider(discovery.FileProviderOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
