package team

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one team of a Set: its name and player rows in order.
type Entry struct {
	Name    string
	Players []Row
}

// Set is an ordered mapping of team name to player rows. It encodes as a
// JSON object whose keys keep the Set's order.
type Set []Entry

// Names returns the team names in order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, e := range s {
		names = append(names, e.Name)
	}
	return names
}

// Get returns the players of the named team.
func (s Set) Get(name string) ([]Row, bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Players, true
		}
	}
	return nil, false
}

// Put stores players under name, replacing an existing team in place or
// appending a new one.
func (s *Set) Put(name string, players []Row) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Players = players
			return
		}
	}
	*s = append(*s, Entry{Name: name, Players: players})
}

// MarshalJSON encodes the set as {"team": [row, ...], ...}.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		players := e.Players
		if players == nil {
			players = []Row{}
		}
		val, err := json.Marshal(players)
		if err != nil {
			return nil, fmt.Errorf("encoding team %q: %w", e.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of team name to row arrays, keeping
// key order. JSON null leaves the set nil.
func (s *Set) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("teams must be a JSON object")
	}

	set := Set{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding team %q: %w", name, err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return fmt.Errorf("team %q must be an array of player rows", name)
		}

		var players []Row
		if err := json.Unmarshal(raw, &players); err != nil {
			return fmt.Errorf("decoding team %q: %w", name, err)
		}
		set.Put(name, players)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*s = set
	return nil
}
