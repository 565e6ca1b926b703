package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

func TestSurface_ApplyThenReadInline(t *testing.T) {
	s := NewSurface(ElementSpec{
		ID:       "title",
		Classes:  "bg-gradient-to-r from-red-500",
		Computed: map[string]string{"opacity": "0.5"},
	})

	el, ok := s.Element("title")
	require.True(t, ok)

	_, ok = el.Inline(style.Opacity)
	assert.False(t, ok)
	v, ok := el.Computed(style.Opacity)
	require.True(t, ok)
	assert.Equal(t, "0.5", v)
	assert.Equal(t, []string{"bg-gradient-to-r", "from-red-500"}, el.Classes())

	s.Apply("title", style.Opacity, "0.75")
	v, ok = el.Inline(style.Opacity)
	require.True(t, ok)
	assert.Equal(t, "0.75", v)

	s.Apply("ghost", style.Opacity, "1")
	_, ok = s.Element("ghost")
	assert.False(t, ok)
}

func TestSurface_ComputedFromClasses(t *testing.T) {
	s := NewSurface(ElementSpec{
		ID:       "card",
		Classes:  "opacity-0 translate-y-8 -translate-x-2 bg-slate-900 blur-sm brightness-50 rounded-xl wobble-3",
		Computed: map[string]string{"borderRadius": "2px"},
	})

	el, ok := s.Element("card")
	require.True(t, ok)

	want := map[style.Property]string{
		style.Opacity:         "0",
		style.Translate:       "-8px 32px",
		style.BackgroundColor: "rgba(15, 23, 42, 1)",
		style.Filter:          "blur(4px) brightness(0.5)",
		style.BorderRadius:    "2px",
	}
	for p, v := range want {
		got, ok := el.Computed(p)
		require.True(t, ok, "computed %s", p)
		assert.Equal(t, v, got, "computed %s", p)
	}

	_, ok = el.Computed(style.Scale)
	assert.False(t, ok, "no class sets scale")

	s.Apply("card", style.Opacity, "1")
	s.Reset()
	v, ok := el.Computed(style.Opacity)
	require.True(t, ok)
	assert.Equal(t, "0", v, "reset keeps the declared classes")
}

func TestSurface_SnapshotAndReset(t *testing.T) {
	s := NewSurface(ElementSpec{ID: "a"}, ElementSpec{ID: "b"})
	s.Apply("a", style.Width, "16px")

	assert.Equal(t, map[string]map[string]string{"a": {"width": "16px"}}, s.Snapshot())
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	s.Reset()
	assert.Empty(t, s.Snapshot())
}

func TestMulti_ForwardsInOrder(t *testing.T) {
	var order []string
	first := applierFunc(func(id string, p style.Property, v string) { order = append(order, "first:"+v) })
	second := applierFunc(func(id string, p style.Property, v string) { order = append(order, "second:"+v) })

	Multi{first, second}.Apply("a", style.Opacity, "1")
	assert.Equal(t, []string{"first:1", "second:1"}, order)
}

func TestLogging_WritesDebugRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Logging{Logger: logger}.Apply("title", style.Opacity, "0.5")
	assert.Contains(t, buf.String(), "target=title")
	assert.Contains(t, buf.String(), "property=opacity")
	assert.Contains(t, buf.String(), "value=0.5")

	Logging{}.Apply("title", style.Opacity, "0.5")
}

func TestRecorder_MarksAndDrains(t *testing.T) {
	var r Recorder
	r.Mark("intro", 3, 0.05)
	r.Apply("title", style.Opacity, "0.5")
	r.Mark("intro", 4, 0.0625)
	r.Apply("title", style.Opacity, "0.6")

	records := r.Records()
	require.Len(t, records, 2)
	assert.Equal(t, Record{Frame: 3, Time: 0.05, Scene: "intro", Target: "title", Property: "opacity", Value: "0.5"}, records[0])
	assert.Equal(t, int64(4), records[1].Frame)

	assert.Len(t, r.Drain(), 2)
	assert.Empty(t, r.Records())
}

type applierFunc func(id string, p style.Property, v string)

func (f applierFunc) Apply(id string, p style.Property, v string) { f(id, p, v) }

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return newFakeToken(p.err)
}

func TestMQTT_PublishesJSONPerTarget(t *testing.T) {
	pub := &fakePublisher{}
	m := NewMQTT(pub, "motion/stage/", 1, nil)

	m.Apply("title", style.Translate, "0 16px")

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "motion/stage/title", pub.sent[0].topic)
	assert.Equal(t, byte(1), pub.sent[0].qos)

	var u Update
	require.NoError(t, json.Unmarshal(pub.sent[0].payload, &u))
	assert.Equal(t, Update{Target: "title", Property: "translate", Value: "0 16px"}, u)
}

func TestMQTT_LogsPublishFailure(t *testing.T) {
	var (
		mu  sync.Mutex
		buf bytes.Buffer
	)
	logger := slog.New(slog.NewTextHandler(lockedWriter{&mu, &buf}, nil))
	m := NewMQTT(&fakePublisher{err: errors.New("broker gone")}, "motion", 0, logger)

	m.Apply("title", style.Opacity, "1")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bytes.Contains(buf.Bytes(), []byte("broker gone"))
	}, time.Second, 5*time.Millisecond)
}

func TestDialMQTT_RequiresURL(t *testing.T) {
	_, err := DialMQTT(MQTTConfig{}, time.Second, nil)
	assert.Error(t, err)
}

type lockedWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
