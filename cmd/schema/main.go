package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/minaorangina/uno/deck"
	"github.com/minaorangina/uno/protocol"
)

// messages lists every payload that crosses the wire
type messages struct {
	Inbound  protocol.InboundMessage  `json:"inbound"`
	Outbound protocol.OutboundMessage `json:"outbound"`

	User        protocol.UserInfo       `json:"user"`
	JoinRoom    protocol.JoinRoomReq    `json:"joinRoom"`
	LeaveRoom   protocol.LeaveRoomReq   `json:"leaveRoom"`
	PlayCards   protocol.PlayCardsReq   `json:"playCards"`
	SubmitColor protocol.SubmitColorReq `json:"submitColor"`

	Room        protocol.RoomSnapshot `json:"room"`
	Hand        protocol.Hand         `json:"hand"`
	Deal        protocol.Deal         `json:"deal"`
	Gained      protocol.Gained       `json:"gained"`
	Turn        protocol.TurnState    `json:"turn"`
	ColorChange protocol.ColorChange  `json:"colorChange"`
	Uno         protocol.Uno          `json:"uno"`
	Result      protocol.Result       `json:"result"`
}

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		Mapper:                    mapCardTypes,
	}
	schema := reflector.Reflect(new(messages))
	schema.Title = "UNO messages"
	schema.Description = "Payloads exchanged between players and the UNO server"
	return schema
}

// mapCardTypes describes card fields the way they are marshalled
func mapCardTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(deck.Color(0)):
		return &jsonschema.Schema{Type: "string", Enum: enum(deck.Red, deck.Yellow, deck.Green, deck.Blue, deck.Black)}
	case reflect.TypeOf(deck.Value(0)):
		return &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "integer", Minimum: json.Number("0"), Maximum: json.Number("9")},
				{Type: "string", Enum: enum(deck.Skip, deck.Reverse, deck.Draw2, deck.Wild, deck.WildDraw4)},
			},
		}
	}
	return nil
}

func enum(values ...fmt.Stringer) []interface{} {
	names := make([]interface{}, 0, len(values))
	for _, v := range values {
		names = append(names, v.String())
	}
	return names
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
