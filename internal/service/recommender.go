// README: Recommendation pipeline; routes a chat message through intent, geocoding, place search, transit and generation.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"terra/internal/ai"
	"terra/internal/config"
	"terra/internal/logger"
	"terra/internal/maps"
	"terra/internal/metrics"
	"terra/internal/modules/conversation"
	"terra/internal/modules/intent"
	"terra/internal/modules/ranking"
	"terra/internal/modules/reachability"
	"terra/internal/types"
	"terra/internal/weather"
)

// recentTurns is how many trailing history entries, including the current
// message, are considered for a recommendation prompt.
const recentTurns = 5

type LocationResolver interface {
	Resolve(ctx context.Context, name string) (maps.Location, error)
}

type ConditionsProvider interface {
	Current(ctx context.Context, p types.Point) (weather.Conditions, error)
}

type PlaceCatalog interface {
	SearchPlaces(ctx context.Context, center types.Point, radiusM int, tags []string) ([]maps.Place, error)
}

type ReachabilityClient interface {
	Reachability(ctx context.Context, origin, destination types.Point) reachability.Result
}

// Deps are the collaborators of a Pipeline. Synonyms defaults to
// intent.DefaultSynonyms.
type Deps struct {
	History      *conversation.Store
	Synonyms     *intent.SynonymTable
	Locations    LocationResolver
	Weather      ConditionsProvider
	Places       PlaceCatalog
	Reachability ReachabilityClient
	Generator    ai.TextGenerator
}

// Pipeline turns one chat message into a reply. Each request runs
// sequentially; the only shared state is the conversation store.
type Pipeline struct {
	history   *conversation.Store
	synonyms  *intent.SynonymTable
	extractor *intent.Extractor
	locations LocationResolver
	weather   ConditionsProvider
	places    PlaceCatalog
	reach     ReachabilityClient
	gen       ai.TextGenerator
	cfg       config.PipelineConfig
	log       *slog.Logger
	now       func() time.Time
}

func NewPipeline(d Deps, cfg config.PipelineConfig, log *slog.Logger) *Pipeline {
	if d.Synonyms == nil {
		d.Synonyms = intent.DefaultSynonyms
	}
	if d.History == nil {
		d.History = conversation.NewStore(cfg.HistoryCapacity)
	}
	return &Pipeline{
		history:   d.History,
		synonyms:  d.Synonyms,
		extractor: intent.NewExtractor(d.Synonyms),
		locations: d.Locations,
		weather:   d.Weather,
		places:    d.Places,
		reach:     d.Reachability,
		gen:       d.Generator,
		cfg:       cfg,
		log:       logger.OrDefault(log),
		now:       time.Now,
	}
}

// ClearHistory forgets the user's conversation.
func (p *Pipeline) ClearHistory(userID string) string {
	p.history.Clear(userID)
	return ClearedReply
}

// Handle never fails; external errors degrade into a valid reply. The turns
// preceding this message are read once, right after it is recorded, so a
// concurrent ClearHistory cannot change what the collaborators see.
func (p *Pipeline) Handle(ctx context.Context, req Request) Response {
	user, text := req.UserID(), req.Text()
	p.history.Record(user, conversation.RoleUser, text)
	prior := priorTurns(p.history.History(user))

	resp := p.route(ctx, user, text, prior)
	p.history.Record(user, conversation.RoleAssistant, resp.Reply)
	metrics.PipelineRuns.WithLabelValues(string(resp.Route)).Inc()
	return resp
}

func (p *Pipeline) route(ctx context.Context, user, text string, prior []conversation.Entry) Response {
	in := p.extractor.Extract(text)
	log := p.log.With(slog.String("user_id", user))

	switch {
	case in.IsIdentityQuestion:
		return Response{Reply: IdentityReply, Route: RouteIdentity}
	case !in.Actionable():
		return p.chat(ctx, log, text, prior)
	}

	// A lone origin doubles as the area to search.
	destText := in.Destination
	if destText == "" {
		destText = in.Origin
	}

	dest, err := p.locations.Resolve(ctx, destText)
	if err != nil {
		log.Info("destination not resolved", slog.String("location", destText), slog.Any("error", err))
		return Response{Reply: locationNotFoundReply(destText), Route: RouteLocationNotFound}
	}

	originPt := dest.Position
	if in.Origin != "" && in.Origin != destText {
		origin, err := p.locations.Resolve(ctx, in.Origin)
		if err != nil {
			log.Info("origin not resolved", slog.String("location", in.Origin), slog.Any("error", err))
			return Response{Reply: originNotFoundReply(in.Origin), Route: RouteOriginNotFound}
		}
		originPt = origin.Position
	}

	var conditions *weather.Conditions
	if c, err := p.weather.Current(ctx, dest.Position); err != nil {
		log.Warn("weather lookup failed", slog.String("provider", "openweather"), slog.Any("error", err))
	} else {
		conditions = &c
	}

	ranked := p.rankPlaces(ctx, log, in.Category, originPt, dest.Position)

	now := p.now()
	prompt := buildRecommendationPrompt(promptContext{
		Location: destText,
		Address:  dest.FormattedAddress,
		Category: in.Category,
		Time:     weather.DisplayTime(now),
		Season:   weather.Season(now),
		Weather:  conditions,
		Ranked:   ranked,
	})

	// The current message is carried by the prompt itself.
	if n := len(prior) - (recentTurns - 1); n > 0 {
		prior = prior[n:]
	}

	answer, err := p.gen.Generate(ctx, ai.SystemPrompt, prior, prompt)
	metrics.ObserveCall("gemini", err)
	if err != nil {
		log.Error("recommendation generation failed", slog.Any("error", err))
		return Response{Reply: generationFailedReply(destText), Places: ranked, Route: RouteGenerationFailed}
	}

	reply := title(in.Category, destText) + "\n\n" + answer
	if len(ranked) == 0 {
		reply += "\n\n" + GeneralCaveat
	}
	return Response{Reply: reply, Places: ranked, Route: RouteRecommend}
}

func (p *Pipeline) chat(ctx context.Context, log *slog.Logger, text string, prior []conversation.Entry) Response {
	answer, err := p.gen.Generate(ctx, ai.SystemPrompt, prior, text)
	metrics.ObserveCall("gemini", err)
	if err != nil {
		log.Error("chat generation failed", slog.Any("error", err))
		return Response{Reply: ChatFailureReply, Route: RouteGenerationFailed}
	}
	return Response{Reply: answer, Route: RouteChat}
}

// priorTurns drops the just-recorded message from the end of history. It
// tolerates a history that no longer ends with it.
func priorTurns(history []conversation.Entry) []conversation.Entry {
	if len(history) == 0 {
		return nil
	}
	return history[:len(history)-1]
}

// rankPlaces searches around dest and checks transit for the leading
// candidates one at a time, in catalog order.
func (p *Pipeline) rankPlaces(ctx context.Context, log *slog.Logger, category string, origin, dest types.Point) []ranking.RankedPlace {
	var tokens []string
	if category != "" {
		tokens = append([]string{category}, p.synonyms.Tags(category)...)
	}

	places, err := p.places.SearchPlaces(ctx, dest, p.cfg.SearchRadiusM, tokens)
	metrics.ObserveCall("overpass_places", err)
	if err != nil {
		log.Warn("place search failed", slog.String("provider", "overpass"), slog.Any("error", err))
		return []ranking.RankedPlace{}
	}

	if len(places) > p.cfg.CandidateLimit {
		places = places[:p.cfg.CandidateLimit]
	}
	candidates := make([]ranking.Candidate, 0, len(places))
	for _, pl := range places {
		candidates = append(candidates, ranking.Candidate{
			Place:        pl,
			Reachability: p.reach.Reachability(ctx, origin, pl.Position),
		})
	}
	return ranking.Rank(candidates)
}

type promptContext struct {
	Location string
	Address  string
	Category string
	Time     string
	Season   string
	Weather  *weather.Conditions
	Ranked   []ranking.RankedPlace
}

type promptPlace struct {
	Name        string              `json:"name"`
	Address     string              `json:"address"`
	Types       []string            `json:"types"`
	TransitInfo reachability.Result `json:"transit_info"`
	Summary     string              `json:"transit_summary"`
}

func buildRecommendationPrompt(c promptContext) string {
	focus := ""
	if c.Category != "" {
		focus = fmt.Sprintf(" focusing on %s options", c.Category)
	}

	weatherText := "Weather information unavailable"
	if c.Weather != nil {
		weatherText = mustIndent(c.Weather)
	}

	placesText := "No places with public transit access found"
	names := make([]string, 0, len(c.Ranked))
	if len(c.Ranked) > 0 {
		pp := make([]promptPlace, 0, len(c.Ranked))
		for _, r := range c.Ranked {
			addr := r.Place.Address
			if addr == "" {
				addr = "Check maps for exact location"
			}
			pp = append(pp, promptPlace{
				Name:        r.Place.Name,
				Address:     addr,
				Types:       r.Place.Tags,
				TransitInfo: r.Reachability,
				Summary:     r.Reachability.Summary(),
			})
			names = append(names, r.Place.Name)
		}
		placesText = mustIndent(pp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I need recommendations for activities near %s%s that are accessible by public transit.\n\n", c.Location, focus)
	b.WriteString("Location details:\n")
	fmt.Fprintf(&b, "- Full address: %s\n", c.Address)
	fmt.Fprintf(&b, "- Current time: %s\n", c.Time)
	fmt.Fprintf(&b, "- Season: %s\n\n", c.Season)
	fmt.Fprintf(&b, "Weather information:\n%s\n\n", weatherText)
	fmt.Fprintf(&b, "Places accessible by public transit:\n%s\n\n", placesText)
	b.WriteString("Consider the conversation history when making recommendations. The user might have mentioned preferences or constraints in previous messages.\n\n")
	b.WriteString("Please provide 3-5 specific recommendations based on this data.")
	if len(names) > 0 {
		fmt.Fprintf(&b, " Mention every one of these places and do not recommend places outside this list: %s.", strings.Join(names, "; "))
	} else {
		b.WriteString(" If no transit-accessible places were found, suggest popular activities in the area that might have public transit access not listed in the data.")
	}
	return b.String()
}

func mustIndent(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
