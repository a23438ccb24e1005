package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/discover"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/trello"
)

type jsonLoader struct{}

func (jsonLoader) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

// Load reads a Trello board export or a generic record list. In auto mode an
// object with "cards" and "lists" or "actions" is taken as a board.
func (jsonLoader) Load(data []byte, opt Options) (*Result, error) {
	kind := opt.Kind
	if kind == "" || kind == KindAuto {
		kind = KindRecords
		if trello.IsExport(data) {
			kind = KindTrello
		}
	}
	switch kind {
	case KindTrello:
		return loadTrello(data)
	case KindRecords:
		t, key, err := discover.Records(data)
		if err != nil {
			if errors.Is(err, discover.ErrMalformed) {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			return nil, err
		}
		return &Result{Kind: KindRecords, RecordKey: key, Table: t}, nil
	}
	return nil, fmt.Errorf("%w: JSON cannot be read as %s", ErrUnsupported, kind)
}

func loadTrello(data []byte) (*Result, error) {
	b, err := trello.Decode(data)
	if err != nil {
		if errors.Is(err, trello.ErrNoCards) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &Result{
		Kind:  KindTrello,
		Table: b.Table(),
		Sources: pipeline.Sources{
			Title:       trello.ColTitle,
			Description: trello.ColDescription,
			Comments:    trello.ColComments,
		},
		DateColumn: trello.ColCreated,
	}, nil
}
