// SPDX-License-Identifier: MIT
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/kruskalctl/builder"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/metrics"
)

// DefaultReloadTimeout bounds how long a changed file is retried while it does not parse.
const DefaultReloadTimeout = 2 * time.Second

// File is the YAML layout of a topology file.
//
//	switches:
//	  - id: 1
//	    ports:
//	      - no: 1
//	        hw_addr: "02:00:00:01:00:01"   # optional
//	links:
//	  - {src: 1, src_port: 1, dst: 2, dst_port: 1, bidirectional: true}
type File struct {
	Switches []FileSwitch `yaml:"switches" validate:"min=1,dive"`
	Links    []FileLink   `yaml:"links" validate:"dive"`
}

// FileSwitch is one switch entry.
type FileSwitch struct {
	ID    uint64     `yaml:"id" validate:"required,min=1"`
	Ports []FilePort `yaml:"ports" validate:"dive"`
}

// FilePort is one port entry. A missing hw_addr is derived from (switch, port).
type FilePort struct {
	No     uint32 `yaml:"no" validate:"required,min=1"`
	HWAddr string `yaml:"hw_addr,omitempty" validate:"omitempty,mac"`
}

// FileLink is one link report. Bidirectional also adds the reverse report.
type FileLink struct {
	Src           uint64 `yaml:"src" validate:"required,min=1"`
	SrcPort       uint32 `yaml:"src_port" validate:"required,min=1"`
	Dst           uint64 `yaml:"dst" validate:"required,min=1,nefield=Src"`
	DstPort       uint32 `yaml:"dst_port" validate:"required,min=1"`
	Bidirectional bool   `yaml:"bidirectional,omitempty"`
}

var validate = validator.New()

// Parse decodes and validates a YAML topology document.
func Parse(data []byte) (*Snapshot, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTopology, err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTopology, err)
	}

	snap := &Snapshot{Switches: make([]core.Switch, 0, len(f.Switches))}
	seen := make(map[core.SwitchID]bool, len(f.Switches))
	for _, fs := range f.Switches {
		id := core.SwitchID(fs.ID)
		if seen[id] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSwitch, fs.ID)
		}
		seen[id] = true

		s := core.Switch{ID: id, Ports: make([]core.Port, 0, len(fs.Ports))}
		for _, fp := range fs.Ports {
			port := core.PortNo(fp.No)
			hw := builder.DefaultHWAddr(id, port)
			if fp.HWAddr != "" {
				parsed, err := net.ParseMAC(fp.HWAddr)
				if err != nil {
					return nil, fmt.Errorf("%w: switch %d port %d: %v", ErrInvalidTopology, fs.ID, fp.No, err)
				}
				hw = parsed
			}
			s.Ports = append(s.Ports, core.Port{No: port, HWAddr: hw})
		}
		snap.Switches = append(snap.Switches, s)
	}

	for _, fl := range f.Links {
		l := core.LinkSpec{
			Src: core.SwitchID(fl.Src), SrcPort: core.PortNo(fl.SrcPort),
			Dst: core.SwitchID(fl.Dst), DstPort: core.PortNo(fl.DstPort),
		}
		snap.Links = append(snap.Links, l)
		if fl.Bidirectional {
			snap.Links = append(snap.Links, core.LinkSpec{Src: l.Dst, SrcPort: l.DstPort, Dst: l.Src, DstPort: l.SrcPort})
		}
	}

	return snap, nil
}

// Marshal encodes a snapshot as a YAML topology document, one entry per link report.
func Marshal(snap Snapshot) ([]byte, error) {
	f := File{
		Switches: make([]FileSwitch, 0, len(snap.Switches)),
		Links:    make([]FileLink, 0, len(snap.Links)),
	}
	for _, s := range snap.Switches {
		fs := FileSwitch{ID: uint64(s.ID)}
		for _, p := range s.Ports {
			fs.Ports = append(fs.Ports, FilePort{No: uint32(p.No), HWAddr: p.HWAddr.String()})
		}
		f.Switches = append(f.Switches, fs)
	}
	for _, l := range snap.Links {
		f.Links = append(f.Links, FileLink{
			Src: uint64(l.Src), SrcPort: uint32(l.SrcPort),
			Dst: uint64(l.Dst), DstPort: uint32(l.DstPort),
		})
	}

	return yaml.Marshal(&f)
}

// FileProviderOptions configures a FileProvider.
type FileProviderOptions struct {
	Path    string
	Logger  *zap.Logger
	Metrics *metrics.Registry
	// ReloadTimeout bounds retries of a changed file that fails to parse.
	// Zero means DefaultReloadTimeout.
	ReloadTimeout time.Duration
}

// FileProvider reads a YAML topology file and follows its changes.
type FileProvider struct {
	path    string
	logger  *zap.Logger
	metrics *metrics.Registry
	timeout time.Duration
}

// NewFileProvider returns a provider for opts.Path. The file must exist.
func NewFileProvider(opts FileProviderOptions) (*FileProvider, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ReloadTimeout <= 0 {
		opts.ReloadTimeout = DefaultReloadTimeout
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	return &FileProvider{
		path:    path,
		logger:  opts.Logger.With(zap.String("path", path)),
		metrics: opts.Metrics,
		timeout: opts.ReloadTimeout,
	}, nil
}

// Get implements Provider.
func (p *FileProvider) Get(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// reload reads the file, retrying with exponential backoff while it is
// missing or does not parse (editors write in several steps).
func (p *FileProvider) reload(ctx context.Context) (*Snapshot, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxElapsedTime = p.timeout

	var snap *Snapshot
	err := backoff.Retry(func() error {
		s, err := p.Get(ctx)
		if err != nil {
			return err
		}
		snap = s
		return nil
	}, backoff.WithContext(b, ctx))
	p.metrics.RecordDiscoveryReload(err)

	return snap, err
}

// Watch implements Provider. The directory holding the file is watched so
// that atomic replacements (write to temp file, rename) are seen.
func (p *FileProvider) Watch(ctx context.Context) (<-chan *Snapshot, error) {
	initial, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan *Snapshot)
	go func() {
		defer close(out)
		defer watcher.Close()

		send := func(s *Snapshot) bool {
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			}
		}
		if !send(initial) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != p.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				snap, err := p.reload(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					p.logger.Warn("topology file reload failed, keeping previous topology", zap.Error(err))
					continue
				}
				p.logger.Info("topology file changed",
					zap.Int("switches", len(snap.Switches)),
					zap.Int("links", len(snap.Links)))
				if !send(snap) {
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Warn("topology file watcher error", zap.Error(err))
			}
		}
	}()

	return out, nil
}
