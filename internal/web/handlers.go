package web

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"housequest/internal/game"
	"housequest/internal/narrate"
	"housequest/internal/report"
	"housequest/internal/session"
)

const cookieName = "housequest_sid"

// Server serves the sorting journey. Live engines are kept per session
// so undo works within a server run; every mutation is also persisted to
// the save store, so a play-through survives a restart (with an empty
// undo stack, as saves never carry undo history).
type Server struct {
	Scenes   *game.SceneSet
	Store    session.Store[string]
	Tmpl     *template.Template
	Narrator narrate.Generator

	mu      sync.Mutex
	engines map[string]*game.Engine
	content map[string]sceneContent
}

// sceneContent caches one scene's displayable content per session, so
// the choices shown are the choices resolved on submit.
type sceneContent struct {
	sceneID string
	content *narrate.Content
}

// NewServer wires up a server. A nil narrator falls back to authored
// scene content.
func NewServer(scenes *game.SceneSet, store session.Store[string], tmpl *template.Template, narrator narrate.Generator) *Server {
	if narrator == nil {
		narrator = narrate.Static{}
	}
	return &Server{
		Scenes:   scenes,
		Store:    store,
		Tmpl:     tmpl,
		Narrator: narrator,
		engines:  map[string]*game.Engine{},
		content:  map[string]sceneContent{},
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)

	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/reroll", s.handleReroll)
	mux.HandleFunc("/begin", s.handleBegin)

	mux.HandleFunc("/play", s.handlePlay)
	mux.HandleFunc("/choose", s.handleChoose)
	mux.HandleFunc("/undo", s.handleUndo)
	mux.HandleFunc("/followup", s.handleFollowup)

	mux.HandleFunc("/result", s.handleResult)
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/reset", s.handleReset)
	return mux
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := s.sessionID(r); id != "" {
		return id
	}
	id := s.Store.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// engineFor returns the live engine for a session, rebuilding it from
// the persisted save on a cold start.
func (s *Server) engineFor(ctx context.Context, id string) *game.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[id]; ok {
		return e
	}
	e := game.NewEngine(s.Scenes)
	if blob, ok, err := s.Store.Get(ctx, id); err == nil && ok {
		// A corrupt save leaves the fresh engine untouched.
		_ = e.Load(blob)
	}
	s.engines[id] = e
	return e
}

func (s *Server) persist(ctx context.Context, id string, e *game.Engine) {
	blob, err := e.Serialize()
	if err != nil {
		return
	}
	_ = s.Store.Put(ctx, id, blob)
}

func (s *Server) forget(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.engines, id)
	delete(s.content, id)
	s.mu.Unlock()
	_ = s.Store.Delete(ctx, id)
}

func (s *Server) dropContent(id string) {
	s.mu.Lock()
	delete(s.content, id)
	s.mu.Unlock()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/start", http.StatusFound)
}

// GET /start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.renderStart(w, StartViewModel{Abilities: game.RollAbilities()})
}

// POST /reroll
func (s *Server) handleReroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	s.renderStart(w, StartViewModel{Abilities: game.RollAbilities()})
}

func (s *Server) renderStart(w http.ResponseWriter, vm StartViewModel) {
	_ = s.Tmpl.ExecuteTemplate(w, "start.html", vm)
}

func formAbilities(r *http.Request) game.Abilities {
	atoi := func(name string) int {
		n, _ := strconv.Atoi(r.FormValue(name))
		return n
	}
	return game.Abilities{
		Vitality:   atoi("vitality"),
		Mana:       atoi("mana"),
		Intellect:  atoi("intellect"),
		Agility:    atoi("agility"),
		Resilience: atoi("resilience"),
		Charm:      atoi("charm"),
	}
}

// POST /begin
func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	e.Reset()
	s.dropContent(id)
	e.SetCharacter(game.Character{
		Name:        r.FormValue("name"),
		Gender:      r.FormValue("gender"),
		Nationality: r.FormValue("nationality"),
		Heritage:    r.FormValue("heritage"),
		Family:      r.FormValue("family"),
	})
	e.SetAbilities(formAbilities(r))
	e.MarkCharacterReady()
	if !e.CharacterReady() {
		s.renderStart(w, StartViewModel{
			Abilities: formAbilities(r),
			Message:   "Every field of the profile is required.",
		})
		return
	}
	s.persist(ctx, id, e)
	http.Redirect(w, r, "/play", http.StatusFound)
}

// contentFor returns the displayable content for the current scene,
// generating it at most once per scene and reusing it until the player
// moves on, so the choices rendered are the choices resolved on submit.
// Any generator failure falls back to the authored scene. Generated
// choices carry tags only; their score contribution goes through
// game.TagEffects, never an authored effect bundle.
func (s *Server) contentFor(ctx context.Context, id string, e *game.Engine, sc *game.Scene) *narrate.Content {
	s.mu.Lock()
	if c, ok := s.content[id]; ok && c.sceneID == sc.ID {
		s.mu.Unlock()
		return c.content
	}
	s.mu.Unlock()

	content, err := s.Narrator.SceneContent(ctx, sc, e.SummaryForContext(), e.State().SelectionHistory)
	if err != nil || content == nil || content.Narration == "" {
		content = &narrate.Content{
			Narration: sc.Narration,
			Choices:   sc.Choices,
			Followup:  sc.Followup,
		}
	}
	if len(content.Choices) == 0 && !sc.Terminal() {
		content.Choices = sc.Choices
	}

	s.mu.Lock()
	s.content[id] = sceneContent{sceneID: sc.ID, content: content}
	s.mu.Unlock()
	return content
}

func findChoice(choices []game.Choice, id string) *game.Choice {
	for i := range choices {
		if choices[i].ID == id {
			return &choices[i]
		}
	}
	return nil
}

// GET /play
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	if !e.CharacterReady() {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	if e.State().FinalResult != nil {
		http.Redirect(w, r, "/result", http.StatusFound)
		return
	}

	sc := e.CurrentScene()
	if sc == nil {
		// Sequence exhausted without a terminal scene; sort with what we
		// have.
		e.FinalizeSorting()
		s.persist(ctx, id, e)
		http.Redirect(w, r, "/result", http.StatusFound)
		return
	}

	if sc.Terminal() {
		s.handleSorting(w, r, id, e, sc)
		return
	}

	s.renderPlay(w, r, id, e, sc, "")
}

// handleSorting runs the terminal-scene protocol: assess first; with no
// tie, finalize straight away and the follow-up stays dead weight. A
// generated follow-up question replaces the authored one when present.
func (s *Server) handleSorting(w http.ResponseWriter, r *http.Request, id string, e *game.Engine, sc *game.Scene) {
	ctx := r.Context()
	if e.PendingFollowup() == nil {
		f := sc.Followup
		if c := s.contentFor(ctx, id, e, sc); c.Followup != nil {
			f = c.Followup
		}
		a := e.Assessment()
		if !a.NeedsFollowup || f == nil || !e.PrepareFollowup(f) {
			e.FinalizeSorting()
			s.persist(ctx, id, e)
			http.Redirect(w, r, "/result", http.StatusFound)
			return
		}
		s.persist(ctx, id, e)
	}
	p := e.PendingFollowup()
	vm := FollowupViewModel{Question: p.Question}
	for i, opt := range p.Options {
		vm.Options = append(vm.Options, OptionView{Index: i, Label: opt})
	}
	_ = s.Tmpl.ExecuteTemplate(w, "followup.html", vm)
}

func (s *Server) renderPlay(w http.ResponseWriter, r *http.Request, id string, e *game.Engine, sc *game.Scene, msg string) {
	content := s.contentFor(r.Context(), id, e, sc)
	vm := PlayViewModel{
		Scene:       sc,
		Narration:   content.Narration,
		Choices:     availableChoices(content.Choices, e.State().Flags),
		SceneNumber: e.SceneIndex() + 1,
		SceneCount:  e.Scenes().Len(),
		CanUndo:     e.SceneIndex() > 0,
		Message:     msg,
		Traits:      traitViews(e.State()),
		KeyMoments:  e.State().KeyMoments,
	}
	_ = s.Tmpl.ExecuteTemplate(w, "game.html", vm)
}

// POST /choose
func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	sc := e.CurrentScene()
	if sc == nil || sc.Terminal() {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	content := s.contentFor(ctx, id, e, sc)
	ch := findChoice(content.Choices, r.FormValue("choice"))
	if ch == nil {
		// A stale id, e.g. a form submitted before a restart regenerated
		// the scene. The authored set is the stable fallback.
		ch = sc.Choice(r.FormValue("choice"))
	}
	if ch == nil {
		s.renderPlay(w, r, id, e, sc, "That choice doesn't exist.")
		return
	}
	if _, err := e.ApplyChoice(*ch, content.Narration, r.FormValue("input")); err != nil {
		s.renderPlay(w, r, id, e, sc, "That path is closed to you.")
		return
	}
	s.dropContent(id)
	s.persist(ctx, id, e)
	http.Redirect(w, r, "/play", http.StatusFound)
}

// POST /undo
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	if _, ok := e.Undo(); ok {
		s.dropContent(id)
		s.persist(ctx, id, e)
	}
	http.Redirect(w, r, "/play", http.StatusFound)
}

// POST /followup
func (s *Server) handleFollowup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	idx, err := strconv.Atoi(r.FormValue("option"))
	if err != nil {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	if _, ok := e.ApplyFollowupSelection(idx); ok {
		s.persist(ctx, id, e)
		http.Redirect(w, r, "/result", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/play", http.StatusFound)
}

// GET /result
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	res := e.State().FinalResult
	if res == nil {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	vm := ResultViewModel{
		CharacterName: e.State().Character.Name,
		HouseName:     game.HouseNames[res.House],
		KeyMoments:    res.KeyMoments,
	}
	for _, rk := range res.Ranked {
		vm.Ranked = append(vm.Ranked, RankedView{Name: game.HouseNames[rk.House], Score: rk.Score})
	}
	_ = s.Tmpl.ExecuteTemplate(w, "result.html", vm)
}

// GET /report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := s.ensureSession(w, r)
	e := s.engineFor(ctx, id)
	res := e.State().FinalResult
	if res == nil {
		http.Redirect(w, r, "/play", http.StatusFound)
		return
	}
	pdf, err := report.Generate(res, e.State().Character, e.State().Transcript)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="sorting-certificate.pdf"`)
	_, _ = w.Write(pdf)
}

// POST /reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/start", http.StatusFound)
		return
	}
	ctx := r.Context()
	if id := s.sessionID(r); id != "" {
		s.forget(ctx, id)
	}
	http.Redirect(w, r, "/start", http.StatusFound)
}
