package tui

import (
	"bytes"
	"context"
	"net/netip"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SyntropyNet/nethealth/internal/logger"
	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
)

var (
	hostA = netip.MustParseAddr("192.0.2.1")
	hostB = netip.MustParseAddr("192.0.2.2")
)

func complete(rtt time.Duration) pingdata.Probe {
	now := time.Now()
	return pingdata.Probe{Target: hostA, SendTime: now, RecvTime: now.Add(rtt), ReplyAddr: hostA}
}

func lost() pingdata.Probe {
	return pingdata.Probe{Target: hostA, SendTime: time.Now(), Lost: true}
}

func TestAnsi(t *testing.T) {
	assert.Equal(t, "\x1b[3;7H", CursorPos(3, 7))
	assert.Equal(t, "\x1b[85G", CursorColumn(85))
	assert.Equal(t, "\x1b[0K", EraseLine(EraseToEnd))
	assert.Equal(t, "\x1b[2J", EraseDisplay(EraseAll))
	assert.Equal(t, "\x1b[36m", Fg(Cyan))
	assert.Equal(t, "\x1b[31m", Fg(Red))
	assert.Equal(t, "\x1b[0m", Reset())
	assert.Equal(t, "\x1b[?25l", HideCursor())
	assert.Equal(t, "\x1b[?25h", ShowCursor())
}

func TestGlyphIndex(t *testing.T) {
	tests := []struct {
		name    string
		latency time.Duration
		maxRTT  time.Duration
		want    int
	}{
		{"zero", 0, 10 * time.Millisecond, 0},
		{"half", 5 * time.Millisecond, 10 * time.Millisecond, 3},
		{"max", 10 * time.Millisecond, 10 * time.Millisecond, 6},
		{"above max", 20 * time.Millisecond, 10 * time.Millisecond, 6},
		{"zero max", time.Millisecond, 0, 6},
		{"below epsilon", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, glyphIndex(tt.latency, tt.maxRTT))
		})
	}
}

func TestSparkline(t *testing.T) {
	maxRTT := 30 * time.Millisecond
	snapshot := []pingdata.Probe{
		complete(0),
		complete(15 * time.Millisecond),
		complete(maxRTT),
		lost(),
		lost(),
		{Target: hostA, SendTime: time.Now()},
		complete(10 * time.Millisecond),
	}

	want := Fg(Cyan) + "▁▄▇" + Fg(Red) + "━━" + Fg(Cyan) + "▃" + Reset()
	assert.Equal(t, want, Sparkline(snapshot, maxRTT))
}

func TestSparklineEmpty(t *testing.T) {
	assert.Equal(t, Reset(), Sparkline(nil, 0))
}

func TestRender(t *testing.T) {
	snapshot := []pingdata.Probe{complete(10 * time.Millisecond), lost(), complete(20 * time.Millisecond)}
	stats := pingdata.Compute(snapshot)

	line := Render(hostA.String(), stats, snapshot, 60)

	want := "           192.0.2.1: " + Sparkline(snapshot, stats.Max) + "\x1b[0K" +
		"\x1b[85G" + "[max:  20, min:  10, avg:  15, loss: 1]" + "\x1b[0K"
	assert.Equal(t, want, line)
}

func TestRenderNoData(t *testing.T) {
	line := Render("host", pingdata.Stats{}, nil, 5)
	assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", 16)+"host: "))
	assert.Contains(t, line, CursorColumn(labelWidth+2+5+3)+"[max:   0, min:   0, avg:   0, loss: 0]")
}

func newTestData() *pingdata.PingData {
	data := pingdata.NewPingData(10)
	data.Add(hostA, hostB)

	h, _ := data.Get(hostA)
	h.Append(complete(10 * time.Millisecond))
	h.Append(complete(30 * time.Millisecond))

	h, _ = data.Get(hostB)
	h.Append(lost())
	return data
}

func TestScreenFrame(t *testing.T) {
	data := newTestData()
	s := NewScreen(&bytes.Buffer{}, []netip.Addr{hostB, hostA}, data, 10, 0, nil)
	assert.Equal(t, DefaultRefresh, s.refresh)
	entry, ok := s.log.(*logrus.Entry)
	require.True(t, ok)
	assert.Same(t, logger.Global(), entry.Logger)

	frame := s.Frame()
	require.True(t, strings.HasPrefix(frame, CursorPos(1, 1)))
	require.True(t, strings.HasSuffix(frame, EraseDisplay(EraseToEnd)))

	lines := strings.Split(strings.TrimPrefix(frame, CursorPos(1, 1)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "192.0.2.2: ")
	assert.Contains(t, lines[0], "loss: 1]")
	assert.Contains(t, lines[1], "192.0.2.1: ")
	assert.Contains(t, lines[1], "[max:  30, min:  10, avg:  20, loss: 0]")
	assert.Equal(t, EraseDisplay(EraseToEnd), lines[2])
}

func TestScreenFrameUnknownHost(t *testing.T) {
	s := NewScreen(&bytes.Buffer{}, []netip.Addr{netip.MustParseAddr("198.51.100.1")}, newTestData(), 10, 0, nil)
	assert.Equal(t, CursorPos(1, 1)+EraseDisplay(EraseToEnd), s.Frame())
}

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

func TestScreenRun(t *testing.T) {
	out := &syncBuffer{}
	s := NewScreen(out, []netip.Addr{hostA}, newTestData(), 10, 5*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Run(ctx))

	str := out.String()
	assert.True(t, strings.HasPrefix(str, EraseDisplay(EraseAll)+HideCursor()))
	assert.True(t, strings.HasSuffix(str, ShowCursor()))
	assert.Greater(t, strings.Count(str, CursorPos(1, 1)), 1)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestScreenRunWriteError(t *testing.T) {
	s := NewScreen(failWriter{}, []netip.Addr{hostA}, newTestData(), 10, time.Millisecond, nil)
	assert.ErrorIs(t, s.Run(context.Background()), assert.AnError)
}

func TestSummary(t *testing.T) {
	out, err := Summary([]netip.Addr{hostA, hostB}, newTestData())
	require.NoError(t, err)

	assert.Contains(t, out, "Received")
	assert.Contains(t, out, "192.0.2.1")
	assert.Contains(t, out, "192.0.2.2")
	assert.Contains(t, out, "20.0ms")
	assert.Contains(t, out, "100.0%")
	assert.Less(t, strings.Index(out, "192.0.2.1"), strings.Index(out, "192.0.2.2"))
}

func TestScreenRunTwice(t *testing.T) {
	s := NewScreen(&syncBuffer{}, []netip.Addr{hostA}, newTestData(), 10, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, s.lock.Running, time.Second, time.Millisecond)
	assert.ErrorIs(t, s.Run(ctx), ErrRunning)

	cancel()
	assert.NoError(t, <-done)
	assert.False(t, s.lock.Running())
}
