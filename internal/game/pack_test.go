package game

import (
	"strings"
	"testing"

	"crowdquiz-service/internal/domain"
)

func TestNewGameFromPackUnknownType(t *testing.T) {
	_, err := NewGameFromPack(domain.Pack{
		ID:     "p",
		States: []domain.StateDef{{Type: "karaoke"}},
	})
	if err == nil || !strings.Contains(err.Error(), "karaoke") {
		t.Fatalf("expected unknown-type error, got %v", err)
	}
}

func TestNewGameFromPackInvalidDefinition(t *testing.T) {
	_, err := NewGameFromPack(domain.Pack{
		ID:     "p",
		States: []domain.StateDef{{Type: "openquestion", Question: "q?"}},
	})
	if err == nil {
		t.Fatal("openquestion without correct_answer should fail to build")
	}
}

func TestNewGameFromPackStartsInLobby(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{ID: "p", Title: "Quiz Night"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()

	if got := g.CurrentState().Name(); got != "lobby" {
		t.Fatalf("expected lobby first, got %q", got)
	}
	msg := g.Snapshot()
	if msg.GeneralInfo["title"] != "Quiz Night" {
		t.Fatalf("lobby should carry the pack title, got %v", msg.GeneralInfo)
	}
}

func TestLobbyJoinAndRemove(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{ID: "p", StartScore: 5})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()

	if !g.PlayerAnswer("alice", "join") {
		t.Fatal("join should succeed")
	}
	if g.PlayerAnswer("alice", "join") {
		t.Fatal("second join with the same name should fail")
	}
	if score, _ := g.Score("alice"); score != 5 {
		t.Fatalf("expected start score 5, got %d", score)
	}

	g.AdminAnswer(domain.Info{"action": "remove_player", "name": "alice"})
	if g.HasPlayer("alice") {
		t.Fatal("alice should be removed")
	}
}

func TestOpenQuestionFlow(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:         "p",
		StartScore: 10,
		States: []domain.StateDef{{
			Type:          "openquestion",
			Question:      "Capital of France?",
			CorrectAnswer: []string{"Paris"},
			PointReward:   3,
		}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	g.PlayerAnswer("alice", "join")
	g.PlayerAnswer("bob", "join")
	g.ShiftState(1)

	if got := g.CurrentState().Name(); got != "oqansweringstage" {
		t.Fatalf("expected answering stage, got %q", got)
	}
	if g.PlayerAnswer("ghost", "paris") {
		t.Fatal("unknown player must be rejected")
	}

	g.PlayerAnswer("alice", "paris")
	if got := g.CurrentState().Name(); got != "oqansweringstage" {
		t.Fatalf("one of two answers should not advance, got %q", got)
	}
	g.PlayerAnswer("bob", "Lyon")
	if got := g.CurrentState().Name(); got != "adminanswercheck" {
		t.Fatalf("all answers in should advance to the check, got %q", got)
	}

	msg := g.Snapshot()
	if msg.AdminInfo["exemplar_answer"] != "Paris" {
		t.Fatalf("operator should see the exemplar, got %v", msg.AdminInfo)
	}

	g.AdminAnswer(domain.Info{"correct_answers": []string{"Lyon"}})
	if got := g.CurrentState().Name(); got != "checkanswersstage" {
		t.Fatalf("confirming should advance to the award, got %q", got)
	}

	// Alice matched the configured answer, bob the operator-approved one.
	if score, _ := g.Score("alice"); score != 13 {
		t.Fatalf("alice expected 13, got %d", score)
	}
	if score, _ := g.Score("bob"); score != 13 {
		t.Fatalf("bob expected 13, got %d", score)
	}

	// Going back and forth must not pay twice.
	g.ShiftState(-1)
	g.ShiftState(1)
	if score, _ := g.Score("alice"); score != 13 {
		t.Fatalf("award must run once, alice=%d", score)
	}
}

func TestOpenQuestionRejectsJudges(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:         "p",
		StartScore: 10,
		States: []domain.StateDef{{
			Type:          "openquestion",
			Question:      "Capital of France?",
			CorrectAnswer: []string{"Paris"},
			PointReward:   3,
		}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	for _, name := range []string{"alice", "bob", "judge"} {
		g.PlayerAnswer(name, "join")
	}
	g.SetIsPlaying([]string{"judge"}, false)
	g.ShiftState(1)

	if g.PlayerAnswer("judge", "Paris") {
		t.Fatal("judges do not answer questions")
	}
	g.PlayerAnswer("alice", "Paris")
	if got := g.CurrentState().Name(); got != "oqansweringstage" {
		t.Fatalf("one of two playing answers must not advance, got %q", got)
	}
	g.PlayerAnswer("bob", "Paris")
	if got := g.CurrentState().Name(); got != "adminanswercheck" {
		t.Fatalf("both playing answers should advance, got %q", got)
	}

	g.AdminAnswer(domain.Info{})
	if score, _ := g.Score("judge"); score != 10 {
		t.Fatalf("judge must not earn the award, got %d", score)
	}
	if score, _ := g.Score("alice"); score != 13 {
		t.Fatalf("alice expected 13, got %d", score)
	}
}

func TestMCQuestionRejectsJudges(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:         "p",
		StartScore: 0,
		States: []domain.StateDef{{
			Type:          "mcquestion",
			Question:      "2+2?",
			Options:       []string{"3", "4"},
			CorrectAnswer: []string{"4"},
			PointReward:   2,
		}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	for _, name := range []string{"alice", "bob", "judge"} {
		g.PlayerAnswer(name, "join")
	}
	g.SetIsPlaying([]string{"judge"}, false)
	g.ShiftState(1)

	if g.PlayerAnswer("judge", "4") {
		t.Fatal("judges do not answer questions")
	}
	g.PlayerAnswer("alice", "4")
	if got := g.CurrentState().Name(); got != "mcqansweringstage" {
		t.Fatalf("one of two playing answers must not advance, got %q", got)
	}
	g.PlayerAnswer("bob", "3")
	if got := g.CurrentState().Name(); got != "checkanswersstage" {
		t.Fatalf("both playing answers should advance, got %q", got)
	}
	if score, _ := g.Score("judge"); score != 0 {
		t.Fatalf("judge must not earn the award, got %d", score)
	}
}

func TestMCQuestionFlow(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:         "p",
		StartScore: 0,
		States: []domain.StateDef{{
			Type:          "mcquestion",
			Question:      "2+2?",
			Options:       []string{"3", "4"},
			CorrectAnswer: []string{"4"},
			PointReward:   2,
		}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	g.PlayerAnswer("alice", "join")
	g.PlayerAnswer("bob", "join")
	g.ShiftState(1)

	if g.PlayerAnswer("alice", "5") {
		t.Fatal("answer outside the options must be rejected")
	}
	g.PlayerAnswer("alice", "4")
	g.PlayerAnswer("bob", "3")

	if got := g.CurrentState().Name(); got != "checkanswersstage" {
		t.Fatalf("mc question has no operator check, got %q", got)
	}
	if score, _ := g.Score("alice"); score != 2 {
		t.Fatalf("alice expected 2, got %d", score)
	}
	if score, _ := g.Score("bob"); score != 0 {
		t.Fatalf("bob expected 0, got %d", score)
	}
}

func TestMCQuestionValidation(t *testing.T) {
	_, err := NewGameFromPack(domain.Pack{
		ID: "p",
		States: []domain.StateDef{{
			Type:          "mcquestion",
			Question:      "q?",
			Options:       []string{"a", "b"},
			CorrectAnswer: []string{"c"},
			PointReward:   1,
		}},
	})
	if err == nil {
		t.Fatal("correct answer outside the options should fail to build")
	}
}

func TestTopNFilter(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:         "p",
		StartScore: 0,
		States:     []domain.StateDef{{Type: "topnfilter", KeepTop: 2}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	for _, name := range []string{"alice", "bob", "carol"} {
		g.PlayerAnswer(name, "join")
	}
	g.UpdateScores(map[string]int{"alice": 9, "bob": 5, "carol": 1}, false)

	g.ShiftState(1)

	if playing, _ := g.IsPlaying("carol"); playing {
		t.Fatal("carol should be eliminated")
	}
	if playing, _ := g.IsPlaying("alice"); !playing {
		t.Fatal("alice should keep playing")
	}

	msg := g.Snapshot()
	eliminated, _ := msg.GeneralInfo["eliminated"].([]string)
	if len(eliminated) != 1 || eliminated[0] != "carol" {
		t.Fatalf("expected [carol] eliminated, got %v", msg.GeneralInfo["eliminated"])
	}
}

func TestTopNFilterIgnoresExistingJudges(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:         "p",
		StartScore: 0,
		States:     []domain.StateDef{{Type: "topnfilter", KeepTop: 1}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	for _, name := range []string{"alice", "bob", "judge"} {
		g.PlayerAnswer(name, "join")
	}
	// The existing judge outscores everyone but must not eat into the quota.
	g.UpdateScores(map[string]int{"judge": 50, "alice": 9, "bob": 5}, false)
	g.SetIsPlaying([]string{"judge"}, false)

	g.ShiftState(1)

	if playing, _ := g.IsPlaying("alice"); !playing {
		t.Fatal("alice is the top playing scorer and must survive the cut")
	}
	if playing, _ := g.IsPlaying("bob"); playing {
		t.Fatal("bob should be eliminated")
	}
}

func TestInfoPage(t *testing.T) {
	g, err := NewGameFromPack(domain.Pack{
		ID:     "p",
		States: []domain.StateDef{{Type: "infopage", Title: "Halftime", Text: "stretch your legs"}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	g.Start()
	g.ShiftState(1)

	msg := g.Snapshot()
	if msg.GeneralInfo["title"] != "Halftime" {
		t.Fatalf("expected info title, got %v", msg.GeneralInfo)
	}
}
