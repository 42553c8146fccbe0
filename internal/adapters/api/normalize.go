package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// PayloadKind tags the result of decoding a response body.
type PayloadKind uint8

const (
	PayloadEmpty PayloadKind = iota
	PayloadList
	PayloadSingle
	PayloadUnrecognized
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadList:
		return "list"
	case PayloadSingle:
		return "single"
	case PayloadUnrecognized:
		return "unrecognized"
	default:
		return "empty"
	}
}

// Payload is a decoded response body.
// INVARIANT: Rows is empty for PayloadEmpty and PayloadUnrecognized, and has
// exactly one element for PayloadSingle.
type Payload struct {
	Kind  PayloadKind
	Shape string
	Rows  []Row
}

type listShape struct {
	name string
	path []string
}

// listShapes is the accepted list envelopes, in match order.
var listShapes = []listShape{
	{name: "bare_array"},
	{name: "data", path: []string{"data"}},
	{name: "players", path: []string{"players"}},
	{name: "sessions", path: []string{"sessions"}},
	{name: "rows", path: []string{"rows"}},
	{name: "records", path: []string{"records"}},
	{name: "payload.data", path: []string{"payload", "data"}},
	{name: "payload.sessions", path: []string{"payload", "sessions"}},
}

// ListShapes returns the accepted list envelope names in match order.
func ListShapes() []string {
	names := make([]string, len(listShapes))
	for i, s := range listShapes {
		names[i] = s.name
	}
	return names
}

// envelopeKeys never make a top-level object count as a record.
var envelopeKeys = map[string]bool{
	"error":   true,
	"message": true,
	"success": true,
	"status":  true,
	"count":   true,
	"total":   true,
}

var wrapperKeys = map[string]bool{
	"data":     true,
	"players":  true,
	"sessions": true,
	"rows":     true,
	"records":  true,
	"payload":  true,
}

// DecodePayload decodes a response body into a tagged payload. It never fails:
// bodies it cannot interpret come back as PayloadEmpty or PayloadUnrecognized.
// PRE: none
// POST: Rows is never nil for PayloadList
func DecodePayload(body []byte) Payload {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Payload{Kind: PayloadEmpty}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return Payload{Kind: PayloadUnrecognized, Shape: "unparseable"}
	}

	for _, shape := range listShapes {
		if items, ok := walk(root, shape.path).([]any); ok {
			return Payload{Kind: PayloadList, Shape: shape.name, Rows: toRows(items)}
		}
	}

	if obj, ok := root.(map[string]any); ok {
		if data, ok := obj["data"].(map[string]any); ok && len(data) > 0 {
			return Payload{Kind: PayloadSingle, Shape: "data.object", Rows: []Row{Row(data)}}
		}
		if isRecord(obj) {
			return Payload{Kind: PayloadSingle, Shape: "object", Rows: []Row{Row(obj)}}
		}
	}
	return Payload{Kind: PayloadUnrecognized, Shape: "unknown"}
}

func walk(v any, path []string) any {
	for _, key := range path {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = obj[key]
	}
	return v
}

// toRows keeps object elements only.
func toRows(items []any) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			rows = append(rows, Row(obj))
		}
	}
	return rows
}

func isRecord(obj map[string]any) bool {
	for k := range obj {
		if !envelopeKeys[k] && !wrapperKeys[k] {
			return true
		}
	}
	return false
}

// failureBody holds what a non-2xx body says about itself.
type failureBody struct {
	errorText   string // JSON error field
	messageText string // JSON message field
	raw         string // trimmed body text
}

func parseFailure(body []byte) failureBody {
	fb := failureBody{raw: strings.TrimSpace(string(body))}
	var env struct {
		Error   any `json:"error"`
		Message any `json:"message"`
	}
	if json.Unmarshal(body, &env) != nil {
		return fb
	}
	fb.errorText = strings.TrimSpace(textOf(env.Error))
	fb.messageText = strings.TrimSpace(textOf(env.Message))
	return fb
}

// message is the text shown for the failure: error, then message.
func (fb failureBody) message() string {
	if fb.errorText != "" {
		return fb.errorText
	}
	return fb.messageText
}

// candidates lists every text a classification rule may match against.
func (fb failureBody) candidates() []string {
	return []string{fb.errorText, fb.messageText, fb.raw}
}

// mentions reports whether any candidate contains substr, ignoring case.
// PRE: substr is lower-case
func (fb failureBody) mentions(substr string) bool {
	for _, c := range fb.candidates() {
		if c != "" && strings.Contains(strings.ToLower(c), substr) {
			return true
		}
	}
	return false
}

// JSONMessage returns the error, then message field of a JSON body, or "".
// Raw text is never returned, so the result is safe to show.
func JSONMessage(body []byte) string {
	return parseFailure(body).message()
}

// BodyMentions reports whether the JSON error, the JSON message or the raw
// text of body contains substr, ignoring case.
func BodyMentions(body []byte, substr string) bool {
	return parseFailure(body).mentions(strings.ToLower(substr))
}

// DowngradeRule turns a matching failure into an empty success.
type DowngradeRule struct {
	Status   int
	Contains string // lower-case substring of the server message
	Reason   string
}

// Matches reports whether the rule applies to status and message.
func (r DowngradeRule) Matches(status int, message string) bool {
	return status == r.Status && strings.Contains(strings.ToLower(message), r.Contains)
}

// matchesBody applies the rule to every text the body carries.
func (r DowngradeRule) matchesBody(status int, fb failureBody) bool {
	for _, c := range fb.candidates() {
		if c != "" && r.Matches(status, c) {
			return true
		}
	}
	return false
}

var (
	RuleNoData      = DowngradeRule{Status: 404, Contains: "no data", Reason: "no_data"}
	RuleOnlyCoaches = DowngradeRule{Status: 403, Contains: "only coaches", Reason: "only_coaches"}
)

// EmptyDowngrades is the rule set for list reads that treat "nothing there"
// and "not a coach" as an empty list.
var EmptyDowngrades = []DowngradeRule{RuleNoData, RuleOnlyCoaches}

// ClassifyListFailure classifies a non-2xx list response. A matching rule
// gives its reason and a nil error; otherwise a KindServer error carrying the
// server's JSON message, or fallback when there is none.
// PRE: status is not 2xx
// POST: exactly one of reason and err is set
func ClassifyListFailure(op string, status int, body []byte, fallback string, rules []DowngradeRule) (string, error) {
	fb := parseFailure(body)
	for _, rule := range rules {
		if rule.matchesBody(status, fb) {
			return rule.Reason, nil
		}
	}
	msg := fb.message()
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = GenericFailure(status, op+" failed")
	}
	return "", ServerFailure(op, status, msg)
}

// GenericFailure formats the message used when the server gave none.
func GenericFailure(status int, what string) string {
	return fmt.Sprintf("Error %d: %s", status, what)
}

// ListSpec configures ReadList for one endpoint.
type ListSpec struct {
	Downgrades []DowngradeRule
	Fallback   string // message for a non-2xx body without one
}

// ListResult is a normalized list response.
type ListResult struct {
	Rows       []Row
	Shape      string
	Downgraded bool
	Reason     string
}

// ReadList normalizes a list endpoint response.
// PRE: resp is non-nil
// POST: Rows is non-nil on success; a downgrade gives zero rows and no error
func ReadList(resp *Response, op string, spec ListSpec) (ListResult, error) {
	if !resp.OK() {
		reason, err := ClassifyListFailure(op, resp.Status, resp.Body, spec.Fallback, spec.Downgrades)
		if err != nil {
			return ListResult{}, err
		}
		slog.Info("list_downgraded", "op", op, "status", resp.Status, "reason", reason)
		return ListResult{Rows: []Row{}, Downgraded: true, Reason: reason}, nil
	}

	p := DecodePayload(resp.Body)
	if p.Kind == PayloadUnrecognized {
		slog.Warn("unrecognized_payload", "op", op, "shape", p.Shape, "bytes", len(resp.Body))
	}
	rows := p.Rows
	if rows == nil {
		rows = []Row{}
	}
	return ListResult{Rows: rows, Shape: p.Shape}, nil
}

// ReadObject reads a write acknowledgement or a single-object response.
// A 2xx body that is not a JSON object reads as an empty Row.
// PRE: resp is non-nil
// POST: non-2xx gives a KindServer error with the server's error, then message field, or fallback
func ReadObject(resp *Response, op, fallback string) (Row, error) {
	if !resp.OK() {
		return nil, objectFailure(resp, op, parseFailure(resp.Body).message(), fallback)
	}
	return decodeObject(resp.Body), nil
}

// ReadAck is ReadObject for endpoints whose failures are reported in the
// error field only. A body carrying just a message gets fallback.
// PRE: resp is non-nil
// POST: non-2xx gives a KindServer error with the JSON error field or fallback
func ReadAck(resp *Response, op, fallback string) (Row, error) {
	if !resp.OK() {
		return nil, objectFailure(resp, op, parseFailure(resp.Body).errorText, fallback)
	}
	return decodeObject(resp.Body), nil
}

func objectFailure(resp *Response, op, msg, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return ServerFailure(op, resp.Status, msg)
}

func decodeObject(body []byte) Row {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return Row{}
	}
	return Row(obj)
}
