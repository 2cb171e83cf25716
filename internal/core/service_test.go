package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newTestService(store Store) *Service {
	return NewService(testRegistry(), store, lineCodec{}, ServiceConfig{
		MaxConcurrentImports: 1,
		MaxImportWait:        50 * time.Millisecond,
	})
}

func TestService_ImportAndQuery(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())

	report, err := svc.Import(ctx, "testPrices", []byte("Test Code,Price\nGLU,300\nHBA,100\nLIP,200\n"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.SuccessCount != 3 {
		t.Fatalf("report = %+v", report)
	}

	res, err := svc.Query(ctx, "testPrices", QueryState{SortField: "price", SortDirection: SortDesc})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	var codes []string
	for _, r := range res.Items {
		codes = append(codes, r["test_code"].(string))
	}
	if got := strings.Join(codes, ","); got != "GLU,LIP,HBA" {
		t.Errorf("sorted codes = %s", got)
	}
}

func TestService_ImportLimiterBusy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())

	release, err := svc.limiter.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	_, err = svc.Import(ctx, "paymentMethods", []byte("Name\nCash\n"))
	if !errors.Is(err, ErrTooManyImports) {
		t.Errorf("err = %v, want ErrTooManyImports", err)
	}
	if st := svc.ImportStatus(); st.Active != 1 || st.Available != 0 {
		t.Errorf("status = %+v", st)
	}
}

func TestService_ImportBatch(t *testing.T) {
	svc := newTestService(newFakeStore())

	if _, err := svc.ImportBatch(context.Background(), nil); !errors.Is(err, ErrNoCategories) {
		t.Errorf("empty batch err = %v", err)
	}

	batch, err := svc.ImportBatch(context.Background(), map[string][]byte{
		"paymentMethods": []byte("Name\nCash\n"),
	})
	if err != nil || batch.SuccessCount != 1 {
		t.Errorf("batch = %+v, err = %v", batch, err)
	}
}

func TestService_ExportFiltered(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())
	if _, err := svc.Import(ctx, "paymentMethods", []byte("Name,Code\nCash,CSH\nCard,CRD\nUPI,UPI\n")); err != nil {
		t.Fatal(err)
	}

	all, err := svc.Export(ctx, "paymentMethods", nil, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n := strings.Count(string(all), "\n"); n != 4 {
		t.Errorf("full export has %d lines, want 4", n)
	}

	filtered, err := svc.Export(ctx, "paymentMethods", &QueryState{Search: "ca", SortField: "name", SortDirection: SortDesc}, nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(filtered), "\n"), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "Cash,") || !strings.HasPrefix(lines[2], "Card,") {
		t.Errorf("filtered export:\n%s", filtered)
	}
}

func TestService_RecordMutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeStore())

	_, err := svc.CreateRecord(ctx, "testPrices", RecordInput{"test_code": "GLU", "price": "abc"})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 1 || verrs[0].Field != "price" {
		t.Fatalf("err = %v, want one price validation error", err)
	}
	var single ValidationError
	if !errors.As(err, &single) {
		t.Error("ValidationErrors should unwrap to ValidationError")
	}

	created, err := svc.CreateRecord(ctx, "testPrices", RecordInput{"Test Code": "GLU", "Price": "12.5", "is_active": "no"})
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if created[FieldIsActive] != false {
		t.Errorf("is_active = %v", created[FieldIsActive])
	}
	if d, ok := created["price"].(decimal.Decimal); !ok || !d.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("price = %v", created["price"])
	}

	updated, err := svc.UpdateRecord(ctx, "testPrices", created.ID(), RecordInput{"test_code": "GLU-F", "price": "15"})
	if err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}
	if updated["test_code"] != "GLU-F" {
		t.Errorf("test_code = %v", updated["test_code"])
	}

	activated, err := svc.SetActive(ctx, "testPrices", created.ID(), true)
	if err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if activated[FieldIsActive] != true || activated["test_code"] != "GLU-F" {
		t.Errorf("activated = %v", activated)
	}

	if _, err := svc.SetActive(ctx, "testPrices", "missing", true); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("SetActive(missing) err = %v", err)
	}

	if err := svc.DeleteRecord(ctx, "testPrices", created.ID()); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}
	if err := svc.DeleteRecord(ctx, "testPrices", created.ID()); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("second delete err = %v", err)
	}
	if err := svc.DeleteRecord(ctx, "ghosts", "x"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("unknown category err = %v", err)
	}
}

func TestService_Template(t *testing.T) {
	data, err := newTestService(newFakeStore()).Template("paymentMethods", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Name *,Code\n" {
		t.Errorf("template = %q", data)
	}
}
