package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goliatone/go-blockgraph/internal/richtext"
	"github.com/goliatone/go-blockgraph/internal/validation"
	"github.com/goliatone/go-blockgraph/pkg/interfaces"
)

// ErrSnapshotInvalid reports an envelope that cannot be decoded at all.
// Individual malformed records never trigger it; they are dropped.
var ErrSnapshotInvalid = errors.New("graph: snapshot invalid")

const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["block"],
  "properties": {
    "block": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["value"]
      }
    },
    "notion_user": {
      "type": "object",
      "additionalProperties": {"type": "object"}
    }
  }
}`

var snapshotValidator = validation.MustCompile("snapshot.json", []byte(snapshotSchema))

// Snapshot is the decoded result of one record-map document.
type Snapshot struct {
	Graph Graph
	Users Directory
}

// DecodeOptions tunes snapshot decoding.
type DecodeOptions struct {
	ValidateSchema bool
}

type envelope struct {
	Block map[string]record `json:"block"`
	Users map[string]record `json:"notion_user"`
}

type record struct {
	Value json.RawMessage `json:"value"`
}

type rawNode struct {
	ID         string                     `json:"id"`
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Format     json.RawMessage            `json:"format"`
	Content    []string                   `json:"content"`
	ParentID   string                     `json:"parent_id"`
	Alive      *bool                      `json:"alive"`
}

type rawUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GivenName    string `json:"given_name"`
	FamilyName   string `json:"family_name"`
	ProfilePhoto string `json:"profile_photo"`
}

type rawDate struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
	TimeZone  string `json:"time_zone"`
}

// DecodeSnapshot reads a record-map JSON document.
func DecodeSnapshot(r io.Reader, opts DecodeOptions) (*Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return DecodeSnapshotBytes(raw, opts)
}

// DecodeSnapshotBytes is DecodeSnapshot over an in-memory document.
func DecodeSnapshotBytes(raw []byte, opts DecodeOptions) (*Snapshot, error) {
	if opts.ValidateSchema {
		if err := snapshotValidator.ValidateJSON(raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSnapshotInvalid, err)
		}
	}

	var env envelope
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	snap := &Snapshot{
		Graph: make(Graph, len(env.Block)),
		Users: make(Directory, len(env.Users)),
	}
	for key, rec := range env.Block {
		node, ok := decodeNode(key, rec.Value)
		if !ok {
			continue
		}
		snap.Graph.Add(node)
	}
	for key, rec := range env.Users {
		user, ok := decodeUser(key, rec.Value)
		if !ok {
			continue
		}
		snap.Users[user.ID] = user
	}
	return snap, nil
}

// unwrapValue handles records whose value is nested one level deeper
// alongside a role field.
func unwrapValue(raw json.RawMessage) json.RawMessage {
	var nested struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested.Value) > 0 && nested.Value[0] == '{' {
		return nested.Value
	}
	return raw
}

func decodeNode(key string, raw json.RawMessage) (*Node, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var rn rawNode
	if err := json.Unmarshal(unwrapValue(raw), &rn); err != nil {
		return nil, false
	}
	id := rn.ID
	if strings.TrimSpace(id) == "" {
		id = key
	}
	if strings.TrimSpace(id) == "" {
		return nil, false
	}

	node := &Node{
		ID:       id,
		Type:     strings.TrimSpace(rn.Type),
		Content:  append([]string(nil), rn.Content...),
		ParentID: rn.ParentID,
		Alive:    rn.Alive == nil || *rn.Alive,
	}
	if len(rn.Format) > 0 {
		node.Format = decodeFormat(rn.Format)
	}
	if len(rn.Properties) > 0 {
		node.Properties = make(map[string][]richtext.Run, len(rn.Properties))
		for name, value := range rn.Properties {
			node.Properties[name] = DecodeRuns(value)
		}
	}
	return node, true
}

// decodeFormat keeps every well-typed field. encoding/json finishes the
// object after a type mismatch, leaving only the offending field zero.
func decodeFormat(raw json.RawMessage) Format {
	var format Format
	err := json.Unmarshal(raw, &format)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		return Format{}
	}
	return format
}

func decodeUser(key string, raw json.RawMessage) (interfaces.User, bool) {
	var ru rawUser
	if err := json.Unmarshal(unwrapValue(raw), &ru); err != nil {
		return interfaces.User{}, false
	}
	id := CanonicalID(ru.ID)
	if id == "" {
		id = CanonicalID(key)
	}
	if id == "" {
		return interfaces.User{}, false
	}
	name := strings.TrimSpace(ru.Name)
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(ru.GivenName) + " " + strings.TrimSpace(ru.FamilyName))
	}
	return interfaces.User{ID: id, Name: name, AvatarURL: ru.ProfilePhoto}, true
}

// DecodeRuns converts the wire form `[[text, [[tag, arg?], ...]?], ...]`
// into runs. Malformed entries are dropped.
func DecodeRuns(raw json.RawMessage) []richtext.Run {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	runs := make([]richtext.Run, 0, len(items))
	for _, item := range items {
		var parts []json.RawMessage
		if err := json.Unmarshal(item, &parts); err != nil || len(parts) == 0 {
			continue
		}
		var text string
		if err := json.Unmarshal(parts[0], &text); err != nil {
			continue
		}
		run := richtext.Run{Text: text}
		if len(parts) > 1 {
			run.Decorations = decodeDecorations(parts[1])
		}
		runs = append(runs, run)
	}
	return runs
}

func decodeDecorations(raw json.RawMessage) []richtext.Decorator {
	var tuples [][]json.RawMessage
	if err := json.Unmarshal(raw, &tuples); err != nil {
		return nil
	}
	out := make([]richtext.Decorator, 0, len(tuples))
	for _, tuple := range tuples {
		if len(tuple) == 0 {
			continue
		}
		var tag string
		if err := json.Unmarshal(tuple[0], &tag); err != nil {
			continue
		}
		out = append(out, decodeDecorator(tag, tuple[1:]))
	}
	return out
}

func decodeDecorator(tag string, args []json.RawMessage) richtext.Decorator {
	switch tag {
	case "b":
		return richtext.Bold{}
	case "i":
		return richtext.Italic{}
	case "_":
		return richtext.Underline{}
	case "s":
		return richtext.Strike{}
	case "c":
		return richtext.Code{}
	case "h":
		if name, ok := stringArg(args); ok {
			if richtext.IsBackground(name) {
				return richtext.Highlight{Name: name}
			}
			return richtext.Color{Name: name}
		}
	case "a":
		if url, ok := stringArg(args); ok {
			return richtext.Link{URL: url}
		}
	case "e":
		if expr, ok := stringArg(args); ok {
			return richtext.Equation{Expr: expr}
		}
	case "u":
		if id, ok := stringArg(args); ok {
			return richtext.Mention{UserID: CanonicalID(id)}
		}
	case "d":
		if len(args) > 0 {
			var rd rawDate
			if err := json.Unmarshal(args[0], &rd); err == nil {
				if date, ok := parseDate(rd); ok {
					return date
				}
			}
		}
	}
	return richtext.Unknown{Tag: tag, Args: decodeArgs(args)}
}

func stringArg(args []json.RawMessage) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	var value string
	if err := json.Unmarshal(args[0], &value); err != nil {
		return "", false
	}
	return value, true
}

func decodeArgs(args []json.RawMessage) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, 0, len(args))
	for _, arg := range args {
		var value any
		if err := json.Unmarshal(arg, &value); err != nil {
			continue
		}
		out = append(out, value)
	}
	return out
}

func parseDate(rd rawDate) (richtext.Date, bool) {
	loc := time.UTC
	if tz := strings.TrimSpace(rd.TimeZone); tz != "" {
		if loaded, err := time.LoadLocation(tz); err == nil {
			loc = loaded
		}
	}
	start, ok := parseInstant(rd.StartDate, rd.StartTime, loc)
	if !ok {
		return richtext.Date{}, false
	}
	date := richtext.Date{Start: start}
	if end, ok := parseInstant(rd.EndDate, rd.EndTime, loc); ok {
		date.End = &end
	}
	return date, true
}

func parseInstant(day, clock string, loc *time.Location) (time.Time, bool) {
	day = strings.TrimSpace(day)
	if day == "" {
		return time.Time{}, false
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		t, err := time.ParseInLocation("2006-01-02", day, loc)
		return t, err == nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, loc)
	return t, err == nil
}
