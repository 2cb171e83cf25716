package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	mu      sync.Mutex
	records map[string][]Record
	nextID  int

	// failOn rejects creates whose record matches.
	failOn func(category string, rec Record) error
	// listErr fails every List.
	listErr error
	// onCreate runs after each successful create.
	onCreate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]Record)}
}

func (s *fakeStore) List(_ context.Context, category string) ([]Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records[category]))
	for i, rec := range s.records[category] {
		out[i] = rec.Clone()
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, category string, rec Record) (Record, error) {
	if s.failOn != nil {
		if err := s.failOn(category, rec); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.nextID++
	stored := rec.Clone()
	stored[FieldID] = fmt.Sprintf("r%d", s.nextID)
	if _, ok := stored[FieldIsActive]; !ok {
		stored[FieldIsActive] = true
	}
	s.records[category] = append(s.records[category], stored)
	s.mu.Unlock()

	if s.onCreate != nil {
		s.onCreate()
	}
	return stored.Clone(), nil
}

func (s *fakeStore) Update(_ context.Context, category, id string, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.records[category] {
		if existing.ID() == id {
			updated := rec.Clone()
			updated[FieldID] = id
			if _, ok := updated[FieldIsActive]; !ok {
				updated[FieldIsActive] = existing[FieldIsActive]
			}
			s.records[category][i] = updated
			return updated.Clone(), nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *fakeStore) Delete(_ context.Context, category, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records[category]
	for i, existing := range records {
		if existing.ID() == id {
			s.records[category] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (s *fakeStore) count(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[category])
}

// lineCodec is a minimal comma-separated codec: no quoting, one row per line.
type lineCodec struct{}

var errGarbage = errors.New("not a spreadsheet")

func (lineCodec) Decode(data []byte) ([]RawRow, error) {
	text := strings.TrimRight(string(data), "\n")
	if strings.HasPrefix(text, "\x00") {
		return nil, errGarbage
	}
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	header := strings.Split(lines[0], ",")
	rows := make([]RawRow, 0, len(lines)-1)
	for i, line := range lines[1:] {
		rows = append(rows, RawRow{
			Number:  i + 1,
			Headers: header,
			Values:  strings.Split(line, ","),
		})
	}
	return rows, nil
}

func (lineCodec) Encode(header []string, rows []RawRow) ([]byte, error) {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row.Values, ","))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}

func paymentMethodsSchema() Schema {
	return Schema{
		ID: "paymentMethods", Group: "Billing", Label: "Payment Methods",
		Fields: []Field{
			{Key: "name", Label: "Name", Type: FieldText, Required: true},
			{Key: "code", Label: "Code", Type: FieldText},
		},
	}
}

func testPricesSchema() Schema {
	return Schema{
		ID: "testPrices", Group: "Billing", Label: "Test Prices",
		Fields: []Field{
			{Key: "test_code", Label: "Test Code", Type: FieldText, Required: true},
			{Key: "price", Label: "Price", Type: FieldNumber, Required: true},
			{Key: "effective_from", Label: "Effective From", Type: FieldDate},
			{Key: "taxable", Label: "Taxable", Type: FieldBoolean},
			{Key: "tier", Label: "Tier", Type: FieldEnum, EnumValues: []string{"Standard", "Premium"}},
		},
	}
}

func testRegistry() *Registry {
	return MustRegistry(paymentMethodsSchema(), testPricesSchema())
}

var errTestBackend = errors.New("backend down")
