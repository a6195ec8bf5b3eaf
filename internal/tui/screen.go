package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/internal/logger"
	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
	"github.com/SyntropyNet/nethealth/pkg/slock"
)

const (
	pkgName        = "tui"
	DefaultRefresh = 50 * time.Millisecond
)

var ErrRunning = errors.New("screen already running")

// Screen redraws host lines in place
type Screen struct {
	out      io.Writer
	hosts    []netip.Addr
	data     *pingdata.PingData
	capacity int
	refresh  time.Duration
	log      logrus.FieldLogger
	lock     slock.AtomicServiceLock
}

func NewScreen(out io.Writer, hosts []netip.Addr, data *pingdata.PingData,
	capacity int, refresh time.Duration, log logrus.FieldLogger) *Screen {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	if log == nil {
		log = logger.Global()
	}

	return &Screen{
		out:      out,
		hosts:    hosts,
		data:     data,
		capacity: capacity,
		refresh:  refresh,
		log:      log.WithField("pkg", pkgName),
	}
}

// Frame builds a full redraw: cursor home, a line per host, erase below
func (s *Screen) Frame() string {
	var sb strings.Builder
	sb.WriteString(CursorPos(1, 1))

	for _, host := range s.hosts {
		h, ok := s.data.Get(host)
		if !ok {
			continue
		}
		snapshot := h.Snapshot()
		sb.WriteString(Render(host.String(), pingdata.Compute(snapshot), snapshot, s.capacity))
		sb.WriteString("\n")
	}

	sb.WriteString(EraseDisplay(EraseToEnd))
	return sb.String()
}

func (s *Screen) write(str string) error {
	if _, err := io.WriteString(s.out, str); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// Run redraws every refresh period until ctx is done.
// Cursor is restored on return.
func (s *Screen) Run(ctx context.Context) error {
	if !s.lock.TryLock() {
		return ErrRunning
	}
	defer s.lock.TryUnlock()

	if err := s.write(EraseDisplay(EraseAll) + HideCursor()); err != nil {
		return err
	}
	defer s.write(ShowCursor())

	s.log.WithField("refresh", s.refresh).Debug("Screen started")
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		if err := s.write(s.Frame()); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			s.log.Debug("Screen stopped")
			return nil
		case <-ticker.C:
		}
	}
}
