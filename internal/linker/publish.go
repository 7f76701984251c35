package linker

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/venvbin/venvbin/internal/platform"
)

// Published pairs a script inside a virtualenv with its bin-dir entry.
type Published struct {
	Source      string
	Destination string
}

// Linker publishes scripts into BinDir.
type Linker struct {
	BinDir    string
	Publisher platform.Publisher

	// Out receives one notice per script that was linked or copied.
	Out    io.Writer
	Logger *log.Logger
}

// Publish exposes every script in BinDir under its base name. A script whose
// destination already points at it is left alone and reported without a
// notice. Scripts that fail to publish are skipped and missing from the
// result.
func (l *Linker) Publish(scripts []string) []Published {
	published := make([]Published, 0, len(scripts))
	for _, src := range scripts {
		dst := filepath.Join(l.BinDir, filepath.Base(src))
		action, err := l.Publisher.Publish(src, dst)
		if err != nil {
			l.logger().Debug("publish failed", "src", src, "dst", dst, "err", err)
			continue
		}
		if action != platform.ActionUnchanged && l.Out != nil {
			fmt.Fprintf(l.Out, "  %s %s\n", action, dst)
		}
		published = append(published, Published{Source: src, Destination: dst})
	}
	return published
}

// Destinations returns the bin-dir side of each pair.
func Destinations(published []Published) []string {
	dsts := make([]string, len(published))
	for i, p := range published {
		dsts[i] = p.Destination
	}
	return dsts
}

func (l *Linker) logger() *log.Logger {
	if l.Logger == nil {
		return log.New(io.Discard)
	}
	return l.Logger
}
