package startgg

import "encoding/json"

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlEnvelope struct {
	Data   json.RawMessage    `json:"data"`
	Errors []graphqlErrorNode `json:"errors"`
}

type graphqlErrorNode struct {
	Message string `json:"message"`
}

type pageInfoNode struct {
	TotalPages int `json:"totalPages"`
}

type idNode struct {
	ID int64 `json:"id"`
}

type entrantNameNode struct {
	Name string `json:"name"`
}

type standingEntryNode struct {
	Entrant *entrantNameNode `json:"entrant"`
}

type standingsNode struct {
	Nodes []standingEntryNode `json:"nodes"`
}

type tournamentEventNode struct {
	ID        int64          `json:"id"`
	Standings *standingsNode `json:"standings"`
}

type tournamentNode struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Slug        string                `json:"slug"`
	City        string                `json:"city"`
	CountryCode string                `json:"countryCode"`
	StartAt     int64                 `json:"startAt"`
	Events      []tournamentEventNode `json:"events"`
}

type tournamentData struct {
	Tournament *tournamentNode `json:"tournament"`
}

type participantNode struct {
	ID       int64    `json:"id"`
	GamerTag string   `json:"gamerTag"`
	Player   *idNode  `json:"player"`
	Entrants []idNode `json:"entrants"`
}

type participantsConnection struct {
	PageInfo pageInfoNode      `json:"pageInfo"`
	Nodes    []participantNode `json:"nodes"`
}

type participantsTournamentNode struct {
	ID           int64                   `json:"id"`
	Participants *participantsConnection `json:"participants"`
}

type participantsData struct {
	Tournament *participantsTournamentNode `json:"tournament"`
}

type eventTournamentNode struct {
	ID         int64   `json:"id"`
	Tournament *idNode `json:"tournament"`
}

type eventTournamentData struct {
	Event *eventTournamentNode `json:"event"`
}

type eventBySlugNode struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type eventBySlugData struct {
	Event *eventBySlugNode `json:"event"`
}

type phaseNode struct {
	Name string `json:"name"`
}

type phaseGroupNode struct {
	DisplayIdentifier string     `json:"displayIdentifier"`
	Phase             *phaseNode `json:"phase"`
}

type selectionNode struct {
	Entrant   *idNode `json:"entrant"`
	Character *idNode `json:"character"`
}

type gameNode struct {
	Selections []selectionNode `json:"selections"`
}

type setSlotNode struct {
	Entrant *idNode `json:"entrant"`
}

type setEventNode struct {
	Name       string           `json:"name"`
	Tournament *entrantNameNode `json:"tournament"`
}

type setNode struct {
	ID           int64           `json:"id"`
	DisplayScore string          `json:"displayScore"`
	PhaseGroup   *phaseGroupNode `json:"phaseGroup"`
	Event        *setEventNode   `json:"event"`
	Slots        []setSlotNode   `json:"slots"`
	Games        []gameNode      `json:"games"`
}

type setsConnection struct {
	Nodes []setNode `json:"nodes"`
}

type eventSetsNode struct {
	ID   int64           `json:"id"`
	Sets *setsConnection `json:"sets"`
}

type eventSetsData struct {
	Event *eventSetsNode `json:"event"`
}

type setByIDData struct {
	Set *setNode `json:"set"`
}

type locationNode struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type authorizationNode struct {
	Type             string `json:"type"`
	ExternalUsername string `json:"externalUsername"`
}

type playerUserNode struct {
	Slug           string              `json:"slug"`
	Location       *locationNode       `json:"location"`
	Authorizations []authorizationNode `json:"authorizations"`
}

type playerNode struct {
	ID       int64           `json:"id"`
	GamerTag string          `json:"gamerTag"`
	Prefix   string          `json:"prefix"`
	User     *playerUserNode `json:"user"`
}

type playerData struct {
	Player *playerNode `json:"player"`
}

type tournamentSummaryNode struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	StartAt     int64  `json:"startAt"`
}

type tournamentsConnection struct {
	PageInfo pageInfoNode            `json:"pageInfo"`
	Nodes    []tournamentSummaryNode `json:"nodes"`
}

type tournamentsByCountryData struct {
	Tournaments *tournamentsConnection `json:"tournaments"`
}
