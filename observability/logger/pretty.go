package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette shared by all pretty encoders
var (
	bufferPool = buffer.NewPool()

	timeColor  = color.New(color.Faint)
	keyColor   = color.New(color.FgCyan)
	valueColor = color.New(color.Faint)

	levelColors = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel:  color.New(color.FgBlue, color.Bold),
		zapcore.InfoLevel:   color.New(color.FgGreen, color.Bold),
		zapcore.WarnLevel:   color.New(color.FgYellow, color.Bold),
		zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
		zapcore.DPanicLevel: color.New(color.FgRed, color.Bold),
		zapcore.PanicLevel:  color.New(color.FgRed, color.Bold),
		zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
	}
)

// prettyEncoder renders each entry as a colored header line followed by
// one indented line per field, keeping fields in the order they were added.
type prettyEncoder struct {
	zapcore.Encoder
}

func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone()}
}

func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	enc := &prettyEncoder{Encoder: zapcore.NewJSONEncoder(cfg.EncoderConfig)}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(buf.Bytes())
	payload, err := decodeOrdered(raw)
	if err != nil {
		// Not an object; emit the JSON line unchanged.
		return buf, nil //nolint:nilerr // fallback output is still valid
	}

	out := bufferPool.Get()
	buf.Free()

	out.AppendString(header(entry))
	for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case timeKey, levelKey, messageKey, nameKey:
			continue
		}
		out.AppendString("  ")
		out.AppendString(keyColor.Sprint(pair.Key))
		out.AppendString(": ")
		out.AppendString(valueColor.Sprint(renderValue(pair.Value)))
		out.AppendByte('\n')
	}

	return out, nil
}

func header(entry zapcore.Entry) string {
	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	c, ok := levelColors[entry.Level]
	if !ok {
		c = levelColors[zapcore.InfoLevel]
	}

	var b strings.Builder
	b.WriteString(timeColor.Sprint("[" + ts.Format(time.DateTime) + "]"))
	b.WriteByte(' ')
	b.WriteString(c.Sprint(strings.ToUpper(entry.Level.String())))
	if entry.LoggerName != "" {
		b.WriteByte(' ')
		b.WriteString(timeColor.Sprint(entry.LoggerName + ":"))
	}
	if entry.Message != "" {
		b.WriteByte(' ')
		b.WriteString(entry.Message)
	}
	b.WriteByte('\n')
	return b.String()
}

func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	return string(out)
}

// decodeOrdered decodes a JSON object, preserving key order at the top level.
func decodeOrdered(data []byte) (*orderedmap.OrderedMap[string, any], error) {
	om := orderedmap.New[string, any]()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, err
	}
	return om, nil
}
