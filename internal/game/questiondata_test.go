package game

import "testing"

func TestQuestionDataCaseFolding(t *testing.T) {
	qd := NewQuestionData([]string{"Amsterdam"}, false)
	qd.ProcessAnswer("alice", "amsterdam")
	qd.ProcessAnswer("bob", "AMSTERDAM")
	qd.ProcessAnswer("carol", "Rotterdam")

	heroes := qd.ListDumpAndClear()
	if len(heroes) != 2 || heroes[0] != "alice" || heroes[1] != "bob" {
		t.Fatalf("expected [alice bob], got %v", heroes)
	}
}

func TestQuestionDataCaseSensitive(t *testing.T) {
	qd := NewQuestionData([]string{"Amsterdam"}, true)
	qd.ProcessAnswer("alice", "amsterdam")
	qd.ProcessAnswer("bob", "Amsterdam")

	heroes := qd.ListDumpAndClear()
	if len(heroes) != 1 || heroes[0] != "bob" {
		t.Fatalf("expected [bob], got %v", heroes)
	}
}

func TestQuestionDataDuplicateAnswerIgnored(t *testing.T) {
	qd := NewQuestionData([]string{"yes"}, false)
	qd.ProcessAnswer("alice", "no")
	qd.ProcessAnswer("alice", "yes") // too late, first answer stands

	if qd.NumAnswers() != 1 {
		t.Fatalf("expected 1 answer, got %d", qd.NumAnswers())
	}
	if heroes := qd.ListDumpAndClear(); len(heroes) != 0 {
		t.Fatalf("first answer was wrong, expected no heroes, got %v", heroes)
	}
}

func TestQuestionDataAddCorrectAnswers(t *testing.T) {
	qd := NewQuestionData([]string{"four"}, false)
	qd.ProcessAnswer("alice", "4")
	qd.AddCorrectAnswers([]string{"4", "FOUR"}) // FOUR folds into four

	if got := qd.ExemplarAnswer(); got != "four" {
		t.Fatalf("exemplar should be the first configured answer, got %q", got)
	}
	heroes := qd.ListDumpAndClear()
	if len(heroes) != 1 || heroes[0] != "alice" {
		t.Fatalf("expected [alice], got %v", heroes)
	}
}

func TestQuestionDataDumpClears(t *testing.T) {
	qd := NewQuestionData([]string{"yes"}, false)
	qd.ProcessAnswer("alice", "yes")

	if heroes := qd.ListDumpAndClear(); len(heroes) != 1 {
		t.Fatalf("expected one hero, got %v", heroes)
	}
	if qd.NumAnswers() != 0 {
		t.Fatalf("dump should clear the answers, got %d", qd.NumAnswers())
	}
	if heroes := qd.ListDumpAndClear(); len(heroes) != 0 {
		t.Fatalf("second dump must be empty, got %v", heroes)
	}
	if got := qd.ExemplarAnswer(); got != "" {
		t.Fatalf("correct set should be cleared too, got %q", got)
	}

	// After clearing, the same player may answer again as if fresh.
	qd.ProcessAnswer("alice", "again")
	if qd.NumAnswers() != 1 {
		t.Fatalf("answer after clear should be accepted, got %d", qd.NumAnswers())
	}
}

func TestQuestionDataSetDump(t *testing.T) {
	qd := NewQuestionData([]string{"yes"}, false)
	qd.ProcessAnswer("alice", "yes")
	qd.ProcessAnswer("bob", "yes")

	set := qd.SetDumpAndClear()
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %v", set)
	}
	if _, ok := set["alice"]; !ok {
		t.Fatal("alice missing from set")
	}
}
