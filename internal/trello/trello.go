// Package trello flattens a Trello board JSON export into one row per card.
package trello

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/classify"
	"github.com/KaramelBytes/tabula-cli/internal/table"
	"github.com/tidwall/gjson"
)

// ErrNoCards is returned when the export has no "cards" key.
var ErrNoCards = errors.New(`trello export has no "cards" key`)

// Column names of the flattened table.
const (
	ColID           = "id"
	ColTitle        = "title"
	ColDescription  = "description"
	ColComments     = "comments"
	ColList         = "list"
	ColLabels       = "labels"
	ColCreated      = "created"
	ColLastActivity = "last_activity"
	ColClosed       = "closed"
	ColURL          = "url"
)

// Columns is the column order of Board.Table.
var Columns = []string{ColID, ColTitle, ColDescription, ColComments, ColList, ColLabels, ColCreated, ColLastActivity, ColClosed, ColURL}

type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type List struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

type Card struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Desc             string   `json:"desc"`
	IDList           string   `json:"idList"`
	IDLabels         []string `json:"idLabels"`
	Labels           []Label  `json:"labels"`
	DateLastActivity string   `json:"dateLastActivity"`
	Closed           bool     `json:"closed"`
	URL              string   `json:"url"`
	ShortURL         string   `json:"shortUrl"`
}

type Action struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Date string `json:"date"`
	Data struct {
		Text string `json:"text"`
		Card struct {
			ID string `json:"id"`
		} `json:"card"`
	} `json:"data"`
}

// Board is the subset of a board export used for analysis.
type Board struct {
	Name    string   `json:"name"`
	Cards   []Card   `json:"cards"`
	Lists   []List   `json:"lists"`
	Labels  []Label  `json:"labels"`
	Actions []Action `json:"actions"`
}

// IsExport reports whether data looks like a board export: an object with
// "cards" plus "lists" or "actions".
func IsExport(data []byte) bool {
	r := gjson.ParseBytes(data)
	if !r.IsObject() || !r.Get("cards").IsArray() {
		return false
	}
	return r.Get("lists").Exists() || r.Get("actions").Exists()
}

// Decode parses a board export.
func Decode(data []byte) (*Board, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode trello export: invalid JSON")
	}
	if !gjson.GetBytes(data, "cards").Exists() {
		return nil, ErrNoCards
	}
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode trello export: %w", err)
	}
	return &b, nil
}

// Comments returns the comment texts of each card in file order.
func (b *Board) Comments() map[string][]string {
	out := map[string][]string{}
	for _, a := range b.Actions {
		if a.Type != "commentCard" || a.Data.Card.ID == "" {
			continue
		}
		out[a.Data.Card.ID] = append(out[a.Data.Card.ID], a.Data.Text)
	}
	return out
}

// Table flattens the board into one row per card.
func (b *Board) Table() *table.Table {
	lists := make(map[string]string, len(b.Lists))
	for _, l := range b.Lists {
		lists[l.ID] = l.Name
	}
	labels := make(map[string]Label, len(b.Labels))
	for _, l := range b.Labels {
		labels[l.ID] = l
	}
	comments := b.Comments()

	recs := make([][]table.Value, 0, len(b.Cards))
	for _, c := range b.Cards {
		url := c.URL
		if url == "" {
			url = c.ShortURL
		}
		var created table.Value
		if t, ok := CreatedAt(c.ID); ok {
			created = t.Format(time.RFC3339)
		}
		var last table.Value
		if c.DateLastActivity != "" {
			last = c.DateLastActivity
		}
		recs = append(recs, []table.Value{
			c.ID,
			classify.Clean(c.Name),
			classify.Clean(c.Desc),
			classify.JoinComments(comments[c.ID]),
			lists[c.IDList],
			cardLabels(c, labels),
			created,
			last,
			c.Closed,
			url,
		})
	}
	return table.New(Columns, recs)
}

func cardLabels(c Card, byID map[string]Label) string {
	var names []string
	add := func(l Label) {
		n := strings.TrimSpace(l.Name)
		if n == "" {
			n = l.Color
		}
		if n != "" {
			names = append(names, n)
		}
	}
	if len(c.Labels) > 0 {
		for _, l := range c.Labels {
			add(l)
		}
	} else {
		for _, id := range c.IDLabels {
			if l, ok := byID[id]; ok {
				add(l)
			}
		}
	}
	return strings.Join(names, ", ")
}

// CreatedAt decodes the creation time embedded in a Trello object id: the
// first 8 hex digits are a Unix timestamp in seconds.
func CreatedAt(id string) (time.Time, bool) {
	if len(id) < 8 {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(id[:8], 16, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}
