package narrative

import (
	"strings"
	"testing"

	"github.com/dotcommander/reportcard/internal/bank"
	"github.com/dotcommander/reportcard/internal/scoring"
)

func tmpls(texts ...string) []bank.Template {
	out := make([]bank.Template, len(texts))
	for i, t := range texts {
		out[i] = bank.Template{Text: t}
	}
	return out
}

func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	tier := func(prefix string) bank.TierPools {
		return bank.TierPools{
			Strengths: tmpls(prefix+"-s-base [Student]", prefix+"-s-good [Student]", prefix+"-s-top [Student]"),
			Growth: []bank.Template{
				{Text: prefix + "-g-general [Student]"},
				{Text: prefix + "-g-theory", Focus: scoring.Theory},
				{Text: prefix + "-g-practical", Focus: scoring.Practical},
			},
			Comments: tmpls(prefix+"-c-base", prefix+"-c-good", prefix+"-c-top"),
		}
	}
	general := bank.Course{Beginner: tier("gen-b"), Intermediate: tier("gen-i"), Advanced: tier("gen-a")}
	python := bank.Course{Beginner: tier("py-b"), Intermediate: tier("py-i"), Advanced: tier("py-a")}

	b, err := bank.New("General", map[string]bank.Course{"General": general, "Python": python})
	if err != nil {
		t.Fatalf("bank.New: %v", err)
	}
	return b
}

func TestSelectPositionRule(t *testing.T) {
	tests := []struct {
		name          string
		scores        scoring.ScoreSet
		wantStrengths string
		wantComments  string
	}{
		{
			name:          "baseline",
			scores:        scoring.ScoreSet{Theory: 60, Practical: 70, Attendance: 90},
			wantStrengths: "py-i-s-base Ada",
			wantComments:  "py-i-c-base",
		},
		{
			name:          "proficient",
			scores:        scoring.ScoreSet{Theory: 80, Practical: 85, Attendance: 50},
			wantStrengths: "py-i-s-good Ada",
			wantComments:  "py-i-c-good",
		},
		{
			name:          "exceeds",
			scores:        scoring.ScoreSet{Theory: 95, Practical: 90, Attendance: 50},
			wantStrengths: "py-i-s-top Ada",
			wantComments:  "py-i-c-top",
		},
		{
			// comments are driven by the theory/practical mean: (100+79)/2 = 89.5
			name:          "mean just below exceeds",
			scores:        scoring.ScoreSet{Theory: 100, Practical: 79, Attendance: 100},
			wantStrengths: "py-i-s-base Ada",
			wantComments:  "py-i-c-good",
		},
	}

	s := NewSelector(testBank(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Select("Python", scoring.Intermediate, tt.scores, "Ada Lovelace")
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if got.Strengths != tt.wantStrengths {
				t.Errorf("Strengths = %q, want %q", got.Strengths, tt.wantStrengths)
			}
			if got.Comments != tt.wantComments {
				t.Errorf("Comments = %q, want %q", got.Comments, tt.wantComments)
			}
			if got.Course != "Python" || got.FellBack {
				t.Errorf("Course = %q, FellBack = %v; want Python, false", got.Course, got.FellBack)
			}
		})
	}
}

func TestSelectGrowth(t *testing.T) {
	tests := []struct {
		name   string
		scores scoring.ScoreSet
		want   string
	}{
		{
			// candidates: general, theory, practical; theory 60 -> first
			name:   "both focus metrics need attention",
			scores: scoring.ScoreSet{Theory: 60, Practical: 60},
			want:   "py-b-g-general Ada",
		},
		{
			// candidates: general, practical; theory 85 -> second candidate
			name:   "only practical needs attention",
			scores: scoring.ScoreSet{Theory: 85, Practical: 40},
			want:   "py-b-g-practical",
		},
		{
			// candidates: general only
			name:   "nothing needs attention",
			scores: scoring.ScoreSet{Theory: 95, Practical: 95},
			want:   "py-b-g-general Ada",
		},
	}

	s := NewSelector(testBank(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Select("Python", scoring.Beginner, tt.scores, "Ada")
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if got.Growth != tt.want {
				t.Errorf("Growth = %q, want %q", got.Growth, tt.want)
			}
		})
	}
}

func TestPickGrowthAllFocusedFallsBackToFirst(t *testing.T) {
	s := NewSelector(testBank(t))
	pool := []bank.Template{
		{Text: "theory", Focus: scoring.Theory},
		{Text: "practical", Focus: scoring.Practical},
	}
	got := s.pickGrowth(pool, scoring.ScoreSet{Theory: 90, Practical: 90, Attendance: 90})
	if got.Text != "theory" {
		t.Errorf("pickGrowth() = %q, want the pool's first entry", got.Text)
	}
}

func TestSelectUnknownCourseFallsBack(t *testing.T) {
	s := NewSelector(testBank(t))
	got, err := s.Select("Nonexistent Course", scoring.Advanced, scoring.ScoreSet{}, "Ada")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if !got.FellBack || got.Course != "General" {
		t.Errorf("Course = %q, FellBack = %v; want General, true", got.Course, got.FellBack)
	}
	if !strings.HasPrefix(got.Strengths, "gen-a-") {
		t.Errorf("Strengths = %q, want a General/Advanced template", got.Strengths)
	}
}

func TestSelectAnonymousStudent(t *testing.T) {
	s := NewSelector(testBank(t))
	for _, name := range []string{"", "   "} {
		got, err := s.Select("Python", scoring.Beginner, scoring.ScoreSet{}, name)
		if err != nil {
			t.Fatalf("Select() error: %v", err)
		}
		if got.Strengths != "py-b-s-base the student" {
			t.Errorf("Strengths = %q, want placeholder name", got.Strengths)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	s := NewSelector(testBank(t))
	scores := scoring.ScoreSet{Theory: 83, Practical: 91, Attendance: 77}
	first, err := s.Select("Python", scoring.Advanced, scores, "Grace Hopper")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, _ := s.Select("Python", scoring.Advanced, scores, "Grace Hopper")
		if again != first {
			t.Fatalf("Select() run %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestSelectCoversDefaultBank(t *testing.T) {
	b, err := bank.Default()
	if err != nil {
		t.Fatalf("bank.Default: %v", err)
	}
	s := NewSelector(b)

	probes := []scoring.ScoreSet{
		{},
		{Theory: 50, Practical: 50, Attendance: 50},
		{Theory: 82, Practical: 79, Attendance: 60},
		{Theory: 100, Practical: 100, Attendance: 100},
	}
	for _, course := range b.CourseNames() {
		for _, tier := range scoring.Tiers {
			for _, scores := range probes {
				got, err := s.Select(course, tier, scores, "Alan Turing")
				if err != nil {
					t.Fatalf("Select(%s, %s) error: %v", course, tier, err)
				}
				for field, text := range map[string]string{
					"strengths": got.Strengths, "growth": got.Growth, "comments": got.Comments,
				} {
					if strings.TrimSpace(text) == "" {
						t.Errorf("%s/%s %s is empty for %+v", course, tier, field, scores)
					}
					if strings.Contains(text, Placeholder) {
						t.Errorf("%s/%s %s kept the placeholder: %q", course, tier, field, text)
					}
				}
			}
		}
	}
}

func TestWithDrivers(t *testing.T) {
	s := NewSelector(testBank(t), WithDrivers(Drivers{
		bank.Strengths: {scoring.Attendance},
		bank.Comments:  nil,
	}))

	got, err := s.Select("Python", scoring.Intermediate, scoring.ScoreSet{Theory: 10, Practical: 10, Attendance: 95}, "Ada")
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got.Strengths != "py-i-s-top Ada" {
		t.Errorf("Strengths = %q, want attendance-driven top entry", got.Strengths)
	}
	if got.Comments != "py-i-c-base" {
		t.Errorf("Comments = %q, want default-driven baseline entry", got.Comments)
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ada Lovelace", "Ada"},
		{"  Grace   Brewster Hopper ", "Grace"},
		{"Cher", "Cher"},
		{"", AnonymousName},
		{"\t\n", AnonymousName},
	}
	for _, tt := range tests {
		if got := FirstName(tt.in); got != tt.want {
			t.Errorf("FirstName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	got := Substitute("[Student] did well. Well done, [Student]! [student] stays.", "Ada")
	want := "Ada did well. Well done, Ada! [student] stays."
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}
}
