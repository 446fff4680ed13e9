package game

import (
	"fmt"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

// infoPage is a static interlude: round intros, rule explanations, the final
// scoreboard. The operator moves past it with the regular navigation.
type infoPage struct {
	baseState
	title string
	text  string
}

// NewInfoPage registers a static page.
func NewInfoPage(g *Game, def domain.StateDef) error {
	if def.Title == "" {
		return fmt.Errorf("infopage: missing title")
	}
	s := &infoPage{baseState: newBaseState(g, "infopage"), title: def.Title, text: def.Text}
	g.AddState(s)
	return nil
}

func (s *infoPage) StateMsg() domain.GameDataMsg {
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{
			"title": s.title,
			"text":  s.text,
		},
	}
}

func (s *infoPage) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("infopage_bigscreen").AddJS("infopage_bigscreen")
}
