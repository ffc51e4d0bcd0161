package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/internal/config"
	"terra/internal/maps"
	"terra/internal/modules/conversation"
	"terra/internal/modules/reachability"
	"terra/internal/types"
	"terra/internal/weather"
)

var (
	cambridge = types.Point{Lat: 42.3736, Lng: -71.1097}
	boston    = types.Point{Lat: 42.3601, Lng: -71.0589}
)

type fakeResolver struct {
	known map[string]maps.Location
	calls []string
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (maps.Location, error) {
	f.calls = append(f.calls, name)
	loc, ok := f.known[name]
	if !ok {
		return maps.Location{}, maps.ErrNotFound
	}
	return loc, nil
}

type fakeWeather struct {
	c   weather.Conditions
	err error
}

func (f fakeWeather) Current(context.Context, types.Point) (weather.Conditions, error) {
	return f.c, f.err
}

type fakePlaces struct {
	places []maps.Place
	err    error
	tokens []string
	radius int
}

func (f *fakePlaces) SearchPlaces(_ context.Context, _ types.Point, radiusM int, tags []string) ([]maps.Place, error) {
	f.tokens, f.radius = tags, radiusM
	return f.places, f.err
}

type reachCall struct{ origin, dest types.Point }

type fakeReach struct {
	byName map[types.Point]reachability.Result
	calls  []reachCall
}

func (f *fakeReach) Reachability(_ context.Context, origin, dest types.Point) reachability.Result {
	f.calls = append(f.calls, reachCall{origin, dest})
	return f.byName[dest]
}

type genCall struct {
	system  string
	history []conversation.Entry
	prompt  string
}

type fakeGen struct {
	reply string
	err   error
	calls []genCall
}

func (f *fakeGen) Generate(_ context.Context, system string, history []conversation.Entry, prompt string) (string, error) {
	f.calls = append(f.calls, genCall{system, history, prompt})
	return f.reply, f.err
}

type harness struct {
	p        *Pipeline
	history  *conversation.Store
	resolver *fakeResolver
	places   *fakePlaces
	reach    *fakeReach
	gen      *fakeGen
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		history: conversation.NewStore(10),
		resolver: &fakeResolver{known: map[string]maps.Location{
			"cambridge": {Position: cambridge, FormattedAddress: "Cambridge, MA, USA"},
			"boston":    {Position: boston, FormattedAddress: "Boston, MA, USA"},
		}},
		places: &fakePlaces{},
		reach:  &fakeReach{byName: map[types.Point]reachability.Result{}},
		gen:    &fakeGen{reply: "Here are some ideas."},
	}
	h.p = NewPipeline(Deps{
		History:      h.history,
		Locations:    h.resolver,
		Weather:      fakeWeather{c: weather.Conditions{Description: "clear sky", TemperatureC: 18}},
		Places:       h.places,
		Reachability: h.reach,
		Generator:    h.gen,
	}, config.PipelineConfig{SearchRadiusM: 5000, CandidateLimit: 5, HistoryCapacity: 10}, nil)
	h.p.now = func() time.Time { return time.Date(2024, time.July, 1, 14, 30, 0, 0, time.UTC) }
	return h
}

func place(name string, lat float64) maps.Place {
	return maps.Place{Name: name, Position: types.Point{Lat: lat, Lng: -71.1}, Tags: []string{"museum"}}
}

func TestHandle_IdentityQuestion(t *testing.T) {
	h := newHarness(t)

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "Who are you?"})

	assert.Equal(t, IdentityReply, resp.Reply)
	assert.Equal(t, RouteIdentity, resp.Route)
	assert.Empty(t, h.gen.calls)
	assert.Equal(t, []conversation.Entry{
		{Role: conversation.RoleUser, Text: "Who are you?"},
		{Role: conversation.RoleAssistant, Text: IdentityReply},
	}, h.history.History("u"))
}

func TestHandle_FreeFormChat(t *testing.T) {
	h := newHarness(t)
	h.history.Record("u", conversation.RoleUser, "earlier")
	h.history.Record("u", conversation.RoleAssistant, "earlier reply")

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "hello there"})

	assert.Equal(t, RouteChat, resp.Route)
	assert.Equal(t, "Here are some ideas.", resp.Reply)
	require.Len(t, h.gen.calls, 1)
	call := h.gen.calls[0]
	assert.Equal(t, "hello there", call.prompt)
	assert.Len(t, call.history, 2)
	assert.Contains(t, call.system, "TerraBot")
	assert.Empty(t, h.resolver.calls)
}

func TestHandle_ChatGenerationFailure(t *testing.T) {
	h := newHarness(t)
	h.gen.err = errors.New("quota")

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "tell me a joke"})
	assert.Equal(t, ChatFailureReply, resp.Reply)

	hist := h.history.History("u")
	assert.Equal(t, ChatFailureReply, hist[len(hist)-1].Text)
}

func TestHandle_DestinationNotFound(t *testing.T) {
	h := newHarness(t)

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "museums in Atlantis"})

	assert.Equal(t, RouteLocationNotFound, resp.Route)
	assert.Equal(t, "Sorry, I couldn't find the location 'atlantis'. Please try a different location.", resp.Reply)
	assert.Empty(t, h.gen.calls)
	assert.Len(t, h.history.History("u"), 2)
}

func TestHandle_OriginNotFound(t *testing.T) {
	h := newHarness(t)

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "from Narnia to museums near Cambridge"})

	assert.Equal(t, RouteOriginNotFound, resp.Route)
	assert.Contains(t, resp.Reply, "'narnia'")
	assert.Empty(t, h.places.tokens)
}

func TestHandle_RecommendsWithOriginAndCategory(t *testing.T) {
	h := newHarness(t)
	near, far := place("MIT Museum", 42.3618), place("Harvard Art Museums", 42.3741)
	h.places.places = []maps.Place{far, near}
	h.reach.byName[near.Position] = reachability.Result{Kind: reachability.Available, DurationMinutes: 30, HasDuration: true, Modes: []string{"SUBWAY"}}
	h.reach.byName[far.Position] = reachability.Result{Kind: reachability.Approximate, StopName: "Harvard", DistanceMeters: 150}

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "from Boston to museums near Cambridge"})

	require.Equal(t, RouteRecommend, resp.Route)
	assert.True(t, strings.HasPrefix(resp.Reply, "**Museum options near cambridge accessible by public transit:**\n\nHere are some ideas."))
	assert.NotContains(t, resp.Reply, GeneralCaveat)

	require.Len(t, resp.Places, 2)
	assert.Equal(t, "MIT Museum", resp.Places[0].Place.Name)
	assert.Equal(t, 2.0, resp.Places[0].Score)

	assert.Equal(t, []string{"cambridge", "boston"}, h.resolver.calls)
	assert.Equal(t, []string{"museum", "museum"}, h.places.tokens)
	assert.Equal(t, 5000, h.places.radius)
	for _, c := range h.reach.calls {
		assert.Equal(t, boston, c.origin)
	}

	prompt := h.gen.calls[0].prompt
	assert.Contains(t, prompt, "near cambridge focusing on museum options")
	assert.Contains(t, prompt, "Full address: Cambridge, MA, USA")
	assert.Contains(t, prompt, "Current time: Monday, 02:30 PM")
	assert.Contains(t, prompt, "Season: Summer")
	assert.Contains(t, prompt, `"description": "clear sky"`)
	assert.Contains(t, prompt, "MIT Museum; Harvard Art Museums")
	assert.Contains(t, prompt, reachability.ApproximationNote)
}

func TestHandle_DestinationActsAsOwnOrigin(t *testing.T) {
	h := newHarness(t)
	p := place("Science Museum", 42.37)
	h.places.places = []maps.Place{p}
	h.reach.byName[p.Position] = reachability.Result{Kind: reachability.Available, Modes: []string{"BUS"}}

	resp := h.p.Handle(context.Background(), ActivitiesCommand{User: "u", Location: "Cambridge"})

	assert.True(t, strings.HasPrefix(resp.Reply, "**Activities near cambridge accessible by public transit:**"))
	require.Len(t, h.reach.calls, 1)
	assert.Equal(t, cambridge, h.reach.calls[0].origin)
	assert.Nil(t, h.places.tokens)
}

func TestHandle_ZeroPlacesAddsCaveat(t *testing.T) {
	h := newHarness(t)

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "recommend activities in Cambridge"})

	assert.Equal(t, RouteRecommend, resp.Route)
	assert.Empty(t, resp.Places)
	assert.True(t, strings.HasSuffix(resp.Reply, "\n\n"+GeneralCaveat))
	assert.Contains(t, h.gen.calls[0].prompt, "No places with public transit access found")
}

func TestHandle_UnreachablePlacesAreDropped(t *testing.T) {
	h := newHarness(t)
	h.places.places = []maps.Place{place("Nowhere", 42.5)}

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "parks near Cambridge"})

	assert.Empty(t, resp.Places)
	assert.Contains(t, resp.Reply, GeneralCaveat)
}

func TestHandle_PlaceSearchFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.places.err = maps.ErrUnavailable

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "parks near Cambridge"})

	assert.Equal(t, RouteRecommend, resp.Route)
	assert.Contains(t, resp.Reply, GeneralCaveat)
	assert.Empty(t, h.reach.calls)
}

func TestHandle_WeatherFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.p.weather = fakeWeather{err: weather.ErrUnavailable}

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "things to do in Cambridge"})

	assert.Equal(t, RouteRecommend, resp.Route)
	assert.Contains(t, h.gen.calls[0].prompt, "Weather information unavailable")
}

func TestHandle_GenerationFailureApologizes(t *testing.T) {
	h := newHarness(t)
	h.gen.err = errors.New("deadline exceeded")

	resp := h.p.Handle(context.Background(), Message{User: "u", Body: "things to do in Cambridge"})

	want := "I had trouble generating recommendations for cambridge. Please try again later."
	assert.Equal(t, RouteGenerationFailed, resp.Route)
	assert.Equal(t, want, resp.Reply)
	hist := h.history.History("u")
	assert.Equal(t, conversation.Entry{Role: conversation.RoleAssistant, Text: want}, hist[len(hist)-1])
}

func TestHandle_CandidateLimit(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 8; i++ {
		h.places.places = append(h.places.places, place("P", 42+float64(i)/100))
	}

	h.p.Handle(context.Background(), Message{User: "u", Body: "museums in Cambridge"})
	assert.Len(t, h.reach.calls, 5)

	h.p.cfg.CandidateLimit = 10
	h.reach.calls = nil
	h.p.Handle(context.Background(), Message{User: "u", Body: "museums in Cambridge"})
	assert.Len(t, h.reach.calls, 8)
}

func TestHandle_RecommendationUsesTrailingHistory(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 4; i++ {
		h.history.Record("u", conversation.RoleUser, "q")
		h.history.Record("u", conversation.RoleAssistant, "a")
	}

	h.p.Handle(context.Background(), Message{User: "u", Body: "museums in Cambridge"})

	got := h.gen.calls[0].history
	assert.Len(t, got, recentTurns-1)
	for _, e := range got {
		assert.NotEqual(t, "museums in Cambridge", e.Text)
	}
}

func TestClearHistory(t *testing.T) {
	h := newHarness(t)
	h.p.Handle(context.Background(), Message{User: "u", Body: "who are you"})

	assert.Equal(t, ClearedReply, h.p.ClearHistory("u"))
	assert.Empty(t, h.history.History("u"))
}

func TestRequests(t *testing.T) {
	var r Request = ActivitiesCommand{User: "42", Location: "New York City"}
	assert.Equal(t, "42", r.UserID())
	assert.Equal(t, "recommend activities in New York City", r.Text())

	r = Message{User: "7", Body: "hi"}
	assert.Equal(t, "hi", r.Text())
}

// clearingWeather wipes the user's history mid-run, as a concurrent
// DELETE /api/users/:id/history would.
type clearingWeather struct {
	p    *Pipeline
	user string
}

func (c clearingWeather) Current(context.Context, types.Point) (weather.Conditions, error) {
	c.p.ClearHistory(c.user)
	return weather.Conditions{Description: "clear sky"}, nil
}

func TestHandle_HistoryClearedMidRun(t *testing.T) {
	h := newHarness(t)
	h.history.Record("u1", conversation.RoleUser, "earlier question")
	h.history.Record("u1", conversation.RoleAssistant, "earlier answer")
	h.p.weather = clearingWeather{p: h.p, user: "u1"}

	var resp Response
	require.NotPanics(t, func() {
		resp = h.p.Handle(context.Background(), Message{User: "u1", Body: "recommend activities in cambridge"})
	})

	assert.Equal(t, RouteRecommend, resp.Route)
	require.Len(t, h.gen.calls, 1)
	assert.Equal(t, []conversation.Entry{
		{Role: conversation.RoleUser, Text: "earlier question"},
		{Role: conversation.RoleAssistant, Text: "earlier answer"},
	}, h.gen.calls[0].history)

	hist := h.history.History("u1")
	require.Len(t, hist, 1)
	assert.Equal(t, conversation.RoleAssistant, hist[0].Role)
}

func TestPriorTurns(t *testing.T) {
	assert.Nil(t, priorTurns(nil))
	assert.Empty(t, priorTurns([]conversation.Entry{{Role: conversation.RoleUser, Text: "hi"}}))
	assert.Len(t, priorTurns(make([]conversation.Entry, 3)), 2)
}
