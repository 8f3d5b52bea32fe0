package material

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/m2k/pkg/host"
)

// InternalPrefix marks host attributes that are never exported.
const InternalPrefix = "__"

// Extractor turns host nodes into records.
type Extractor struct {
	scene  host.Scene
	logger *log.Logger
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(scene host.Scene, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Extractor{scene: scene, logger: logger}
}

// Extract snapshots one node with a discarding logger.
func Extract(scene host.Scene, id string) (*Record, error) {
	return NewExtractor(scene, nil).Extract(id)
}

// Extract snapshots the node's identity, exportable attribute values and
// input connections.
//
// Attributes with the internal prefix, child attributes and unknown host
// types are dropped. A failed read skips that attribute only.
func (e *Extractor) Extract(id string) (*Record, error) {
	info, err := e.scene.Node(id)
	if err != nil {
		return nil, nodeError(id, err)
	}
	rec := NewRecord(info.Name, info.Type)
	rec.FullPath = info.FullPath

	attrs, err := e.scene.Attributes(info.Name)
	if err != nil {
		return nil, nodeError(info.Name, err)
	}
	for _, a := range attrs {
		if strings.HasPrefix(a.Name, InternalPrefix) || a.Child {
			continue
		}
		raw, err := e.scene.Value(info.Name, a.Name)
		if err != nil {
			e.logger.Debug("skipping unreadable attribute", "node", info.Name, "attr", a.Name, "err", err)
			continue
		}
		v, ok := normalize(a.Type, raw)
		if !ok {
			e.logger.Debug("skipping attribute", "node", info.Name, "attr", a.Name, "type", a.Type)
			continue
		}
		rec.SetAttr(a.Name, v)
	}

	inputs, err := e.scene.Inputs(info.Name)
	if err != nil {
		return nil, nodeError(info.Name, err)
	}
	for _, c := range inputs {
		rec.SetInput(c.Dest.Attr, c.Source, c.Child)
	}
	return rec, nil
}

// ExtractAll extracts every id in order.
func (e *Extractor) ExtractAll(ids []string) ([]*Record, error) {
	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := e.Extract(id)
		if err != nil {
			return nil, fmt.Errorf("extract: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// normalize maps a host value onto a Value by host type.
func normalize(typ host.AttrType, raw any) (Value, bool) {
	switch typ {
	case host.TypeFloat, host.TypeDouble, host.TypeInt:
		f, ok := toNumber(raw)
		if !ok {
			return Value{}, false
		}
		return Number(f), true
	case host.TypeEnum:
		f, ok := toNumber(raw)
		if !ok {
			return Value{}, false
		}
		return Number(math.Trunc(f)), true
	case host.TypeBool:
		switch b := raw.(type) {
		case bool:
			if b {
				return Number(1), true
			}
			return Number(0), true
		default:
			f, ok := toNumber(raw)
			if !ok {
				return Value{}, false
			}
			if f != 0 {
				return Number(1), true
			}
			return Number(0), true
		}
	case host.TypeFloat3, host.TypeDouble3:
		switch vs := raw.(type) {
		case []float64:
			return Array(vs...), true
		case []float32:
			out := make([]float64, len(vs))
			for i, f := range vs {
				out[i] = float64(f)
			}
			return Value{Kind: KindArray, Arr: out}, true
		}
	case host.TypeString:
		if s, ok := raw.(string); ok {
			return String(s), true
		}
	}
	return Value{}, false
}

func toNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
