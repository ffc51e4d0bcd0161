package service

import "terra/internal/modules/ranking"

// Request is implemented by every entry point that feeds the pipeline.
type Request interface {
	UserID() string
	Text() string
}

// Message is a free-text chat message.
type Message struct {
	User string
	Body string
}

func (m Message) UserID() string { return m.User }
func (m Message) Text() string   { return m.Body }

// ActivitiesCommand asks for recommendations around a location.
type ActivitiesCommand struct {
	User     string
	Location string
}

func (c ActivitiesCommand) UserID() string { return c.User }
func (c ActivitiesCommand) Text() string   { return "recommend activities in " + c.Location }

// Route names the terminal branch a request took.
type Route string

const (
	RouteIdentity         Route = "identity"
	RouteChat             Route = "chat"
	RouteLocationNotFound Route = "location_not_found"
	RouteOriginNotFound   Route = "origin_not_found"
	RouteRecommend        Route = "recommend"
	RouteGenerationFailed Route = "generation_failed"
)

type Response struct {
	Reply  string                `json:"reply"`
	Places []ranking.RankedPlace `json:"places"`
	Route  Route                 `json:"route"`
}
