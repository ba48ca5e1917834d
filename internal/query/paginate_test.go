package query

import (
	"testing"
)

func intsUpTo(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateWindows(t *testing.T) {
	items := intsUpTo(8)

	page := Paginate(items, Pagination{Page: 2, PageSize: 5})
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items on last page, got %d", len(page.Items))
	}
	if page.Items[0] != 6 || page.Items[2] != 8 {
		t.Fatalf("unexpected window: %v", page.Items)
	}
	if page.Total != 8 || page.TotalPages != 2 || page.Page != 2 || page.PageSize != 5 {
		t.Fatalf("unexpected metadata: %+v", page)
	}
}

func TestPaginateBeyondEnd(t *testing.T) {
	page := Paginate(intsUpTo(4), Pagination{Page: 9, PageSize: 10})
	if len(page.Items) != 0 {
		t.Fatalf("expected empty page past the end, got %v", page.Items)
	}
	if page.Total != 4 || page.TotalPages != 1 {
		t.Fatalf("unexpected metadata: %+v", page)
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	page := Paginate([]int{}, Pagination{Page: 1, PageSize: 10})
	if len(page.Items) != 0 || page.Total != 0 || page.TotalPages != 0 {
		t.Fatalf("unexpected result for empty input: %+v", page)
	}
}

func TestPaginateInvariants(t *testing.T) {
	for total := 0; total <= 25; total++ {
		items := intsUpTo(total)
		for pageSize := 1; pageSize <= 7; pageSize++ {
			for pageNum := 1; pageNum*pageSize <= total+pageSize; pageNum++ {
				p := Pagination{Page: pageNum, PageSize: pageSize}
				got := Paginate(items, p)

				want := total - p.Offset()
				if want < 0 {
					want = 0
				}
				if want > pageSize {
					want = pageSize
				}
				if len(got.Items) != want {
					t.Fatalf("total=%d page=%d size=%d: expected %d items, got %d",
						total, pageNum, pageSize, want, len(got.Items))
				}

				wantPages := (total + pageSize - 1) / pageSize
				if got.TotalPages != wantPages {
					t.Fatalf("total=%d size=%d: expected %d pages, got %d",
						total, pageSize, wantPages, got.TotalPages)
				}
			}
		}
	}
}

func TestPaginateDoesNotMutateInput(t *testing.T) {
	items := []int{3, 1, 2}
	_ = Paginate(items, Pagination{Page: 1, PageSize: 2})
	if items[0] != 3 || items[1] != 1 || items[2] != 2 {
		t.Fatalf("input mutated: %v", items)
	}
}

type row struct {
	name string
	rank int64
	seq  int
}

func rowCmp(a, b row, field string) int {
	switch field {
	case "name":
		return CompareStrings(a.name, b.name)
	default:
		return CompareInt64(a.rank, b.rank)
	}
}

func TestSortSliceStability(t *testing.T) {
	rows := []row{
		{name: "beta", rank: 2, seq: 0},
		{name: "alpha", rank: 1, seq: 1},
		{name: "beta", rank: 2, seq: 2},
		{name: "alpha", rank: 1, seq: 3},
		{name: "beta", rank: 2, seq: 4},
	}

	for _, order := range []Order{OrderAsc, OrderDesc} {
		sorted := SortSlice(rows, Sort{Field: "rank", Order: order}, rowCmp)

		// Equal-rank items keep their original relative order regardless of
		// direction.
		lastSeq := map[int64]int{}
		for _, r := range sorted {
			if prev, ok := lastSeq[r.rank]; ok && r.seq < prev {
				t.Fatalf("order %s: tie broken out of input order: %+v", order, sorted)
			}
			lastSeq[r.rank] = r.seq
		}
	}
}

func TestSortSliceDirections(t *testing.T) {
	rows := []row{
		{name: "charlie", rank: 3},
		{name: "alpha", rank: 1},
		{name: "bravo", rank: 2},
	}

	asc := SortSlice(rows, Sort{Field: "name", Order: OrderAsc}, rowCmp)
	if asc[0].name != "alpha" || asc[2].name != "charlie" {
		t.Fatalf("unexpected asc order: %+v", asc)
	}

	desc := SortSlice(rows, Sort{Field: "rank", Order: OrderDesc}, rowCmp)
	if desc[0].rank != 3 || desc[2].rank != 1 {
		t.Fatalf("unexpected desc order: %+v", desc)
	}
}

func TestSortSliceDoesNotMutateInput(t *testing.T) {
	rows := []row{{rank: 2}, {rank: 1}}
	_ = SortSlice(rows, Sort{Field: "rank", Order: OrderAsc}, rowCmp)
	if rows[0].rank != 2 {
		t.Fatalf("input mutated: %+v", rows)
	}
}
