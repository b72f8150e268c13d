package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Statistics", "CQWW", "WPX"}
	rows := [][]string{
		{"Total QSOs", "1,234", "87"},
		{"Average Rate", "95.5", "12.0"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := FormatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Statistics    CQWW  WPX" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Total QSOs   1,234   87" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Average Rate  95.5 12.0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatGridTable(t *testing.T) {
	lines := FormatGridTable([]string{"Hour", "Rate"}, [][]string{{"10:00", "42"}}, map[int]bool{1: true})
	want := []string{
		"+-------+------+",
		"| Hour  | Rate |",
		"+=======+======+",
		"| 10:00 |   42 |",
		"+-------+------+",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}
