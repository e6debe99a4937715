package startgg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/smashcolombia/startgg-stats/internal/platform/cache"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/smashcolombia/startgg-stats/internal/platform/paging"
	"github.com/smashcolombia/startgg-stats/internal/platform/resilience"
	"github.com/smashcolombia/startgg-stats/internal/usecase"
)

const (
	defaultBaseURL    = "https://api.start.gg/gql/alpha"
	defaultTimeout    = 20 * time.Second
	defaultResolveTTL = 10 * time.Minute
	maxResponseBytes  = 6 << 20
	maxErrorBodyBytes = 2048
)

var bearerTokenRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// ResolveTTL bounds the event to tournament id cache. Participant and
	// set data is never cached.
	ResolveTTL time.Duration
}

// Client talks to the start.gg GraphQL endpoint. It issues exactly one
// request per Execute call; retry policy belongs to the callers that page.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	resolveCache   *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	resolveTTL := cfg.ResolveTTL
	if resolveTTL <= 0 {
		resolveTTL = defaultResolveTTL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		resolveCache:   cache.NewStore(resolveTTL),
	}
}

// execute posts one query+variables document and decodes data into target.
// Failures are classified into the package error types; a 200 response whose
// entity is null is NOT an error here, callers decide what null means.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "startgg circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: start.gg is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	key := flightKey(query, variables)
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.post(ctx, query, variables)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return &MalformedResponseError{Reason: fmt.Sprintf("unexpected payload type %T", out)}
	}

	var envelope graphqlEnvelope
	if decodeErr := sonic.Unmarshal(raw, &envelope); decodeErr != nil {
		return &MalformedResponseError{Reason: "body is not valid JSON", Err: decodeErr}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, node := range envelope.Errors {
			messages = append(messages, node.Message)
		}
		return &GraphQLError{Messages: messages}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &MalformedResponseError{Reason: "response carries neither data nor errors"}
	}
	if decodeErr := sonic.Unmarshal(envelope.Data, target); decodeErr != nil {
		return &MalformedResponseError{Reason: "data does not match query shape", Err: decodeErr}
	}

	return nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	body, err := sonic.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wrapped := &TransportError{Err: fmt.Errorf("%s", sanitizeSensitiveText(err.Error(), c.token))}
		c.logger.WarnContext(ctx, "startgg request failed", "error", wrapped)
		return nil, wrapped
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", readErr)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &HTTPStatusError{Status: resp.StatusCode, Body: abbreviateBody(raw)}
		c.logger.WarnContext(ctx, "startgg returned non-2xx", "status", resp.StatusCode)
		return nil, statusErr
	}

	return raw, nil
}

func (c *Client) Tournament(ctx context.Context, tournamentID int64) (usecase.UpstreamTournament, error) {
	var data tournamentData
	err := c.execute(ctx, tournamentQuery, map[string]any{"id": tournamentID}, &data)
	if err != nil {
		return usecase.UpstreamTournament{}, fmt.Errorf("fetch tournament id=%d: %w", tournamentID, err)
	}
	if data.Tournament == nil {
		return usecase.UpstreamTournament{}, fmt.Errorf("%w: tournament id=%d", usecase.ErrNotFound, tournamentID)
	}

	node := data.Tournament
	out := usecase.UpstreamTournament{
		ID:          node.ID,
		Name:        node.Name,
		Slug:        node.Slug,
		City:        node.City,
		CountryCode: node.CountryCode,
		StartAt:     node.StartAt,
	}
	for _, event := range node.Events {
		out.EventIDs = append(out.EventIDs, event.ID)
	}
	if len(node.Events) > 0 {
		out.Winner = firstPlaceName(node.Events[0].Standings)
	}

	return out, nil
}

func (c *Client) TournamentParticipants(ctx context.Context, tournamentID int64, page, perPage int) (paging.Page[usecase.UpstreamParticipant], error) {
	variables := map[string]any{
		"id":      tournamentID,
		"page":    page,
		"perPage": perPage,
	}
	var data participantsData
	if err := c.execute(ctx, tournamentParticipantsQuery, variables, &data); err != nil {
		return paging.Page[usecase.UpstreamParticipant]{}, fmt.Errorf("fetch participants tournament_id=%d page=%d: %w", tournamentID, page, err)
	}
	if data.Tournament == nil {
		return paging.Page[usecase.UpstreamParticipant]{}, fmt.Errorf("%w: tournament id=%d", usecase.ErrNotFound, tournamentID)
	}
	if data.Tournament.Participants == nil {
		return paging.Page[usecase.UpstreamParticipant]{}, nil
	}

	connection := data.Tournament.Participants
	items := make([]usecase.UpstreamParticipant, 0, len(connection.Nodes))
	for _, node := range connection.Nodes {
		entry := usecase.UpstreamParticipant{
			ParticipantID: node.ID,
			GamerTag:      node.GamerTag,
		}
		if node.Player != nil {
			playerID := node.Player.ID
			entry.PlayerID = &playerID
		}
		for _, entrant := range node.Entrants {
			entry.EntrantIDs = append(entry.EntrantIDs, entrant.ID)
		}
		items = append(items, entry)
	}

	return paging.Page[usecase.UpstreamParticipant]{
		Items:      items,
		TotalPages: connection.PageInfo.TotalPages,
	}, nil
}

func (c *Client) TournamentIDForEvent(ctx context.Context, eventID int64) (int64, error) {
	key := fmt.Sprintf("event-tournament:%d", eventID)
	value, err := c.resolveCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		var data eventTournamentData
		if err := c.execute(ctx, eventTournamentQuery, map[string]any{"eventId": eventID}, &data); err != nil {
			return nil, fmt.Errorf("resolve event id=%d: %w", eventID, err)
		}
		if data.Event == nil || data.Event.Tournament == nil {
			return nil, fmt.Errorf("%w: event id=%d", usecase.ErrNotFound, eventID)
		}
		return data.Event.Tournament.ID, nil
	})
	if err != nil {
		return 0, err
	}

	tournamentID, ok := value.(int64)
	if !ok {
		return 0, &MalformedResponseError{Reason: fmt.Sprintf("unexpected cached value type %T", value)}
	}
	return tournamentID, nil
}

func (c *Client) EventIDForSlug(ctx context.Context, slug string) (int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, fmt.Errorf("%w: event slug is required", usecase.ErrInvalidInput)
	}

	var data eventBySlugData
	if err := c.execute(ctx, eventBySlugQuery, map[string]any{"slug": slug}, &data); err != nil {
		return 0, fmt.Errorf("fetch event slug=%s: %w", slug, err)
	}
	if data.Event == nil {
		return 0, fmt.Errorf("%w: event slug=%s", usecase.ErrNotFound, slug)
	}

	return data.Event.ID, nil
}

func (c *Client) EventSets(ctx context.Context, eventID int64, page, perPage int) (paging.Page[usecase.UpstreamSet], error) {
	variables := map[string]any{
		"eventId": eventID,
		"page":    page,
		"perPage": perPage,
	}
	var data eventSetsData
	if err := c.execute(ctx, eventSetsQuery, variables, &data); err != nil {
		return paging.Page[usecase.UpstreamSet]{}, fmt.Errorf("fetch sets event_id=%d page=%d: %w", eventID, page, err)
	}
	if data.Event == nil {
		return paging.Page[usecase.UpstreamSet]{}, fmt.Errorf("%w: event id=%d", usecase.ErrNotFound, eventID)
	}
	if data.Event.Sets == nil {
		return paging.Page[usecase.UpstreamSet]{}, nil
	}

	items := make([]usecase.UpstreamSet, 0, len(data.Event.Sets.Nodes))
	for _, node := range data.Event.Sets.Nodes {
		items = append(items, mapSetNode(node))
	}

	// The sets connection reports no usable total; the short-page stop
	// condition terminates pagination.
	return paging.Page[usecase.UpstreamSet]{Items: items}, nil
}

func (c *Client) SetByID(ctx context.Context, setID int64) (usecase.UpstreamSet, error) {
	var data setByIDData
	if err := c.execute(ctx, setByIDQuery, map[string]any{"setId": setID}, &data); err != nil {
		return usecase.UpstreamSet{}, fmt.Errorf("fetch set id=%d: %w", setID, err)
	}
	if data.Set == nil {
		return usecase.UpstreamSet{}, fmt.Errorf("%w: set id=%d", usecase.ErrNotFound, setID)
	}

	return mapSetNode(*data.Set), nil
}

func (c *Client) Player(ctx context.Context, playerID int64) (usecase.UpstreamPlayer, error) {
	var data playerData
	if err := c.execute(ctx, playerQuery, map[string]any{"id": playerID}, &data); err != nil {
		return usecase.UpstreamPlayer{}, fmt.Errorf("fetch player id=%d: %w", playerID, err)
	}
	if data.Player == nil {
		return usecase.UpstreamPlayer{}, fmt.Errorf("%w: player id=%d", usecase.ErrNotFound, playerID)
	}

	node := data.Player
	out := usecase.UpstreamPlayer{
		ID:       node.ID,
		GamerTag: node.GamerTag,
		Prefix:   node.Prefix,
	}
	if node.User != nil {
		out.UserSlug = node.User.Slug
		if node.User.Location != nil {
			out.City = node.User.Location.City
			out.State = node.User.Location.State
			out.Country = node.User.Location.Country
		}
		for _, auth := range node.User.Authorizations {
			switch auth.Type {
			case "TWITTER":
				out.Twitter = auth.ExternalUsername
			case "DISCORD":
				out.Discord = auth.ExternalUsername
			case "TWITCH":
				out.Twitch = auth.ExternalUsername
			}
		}
	}

	return out, nil
}

func (c *Client) TournamentsByCountry(ctx context.Context, countryCode string, page, perPage int) (paging.Page[usecase.UpstreamTournamentSummary], error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if countryCode == "" {
		return paging.Page[usecase.UpstreamTournamentSummary]{}, fmt.Errorf("%w: country code is required", usecase.ErrInvalidInput)
	}

	variables := map[string]any{
		"countryCode": countryCode,
		"page":        page,
		"perPage":     perPage,
	}
	var data tournamentsByCountryData
	if err := c.execute(ctx, tournamentsByCountryQuery, variables, &data); err != nil {
		return paging.Page[usecase.UpstreamTournamentSummary]{}, fmt.Errorf("fetch tournaments country=%s page=%d: %w", countryCode, page, err)
	}
	if data.Tournaments == nil {
		return paging.Page[usecase.UpstreamTournamentSummary]{}, nil
	}

	items := make([]usecase.UpstreamTournamentSummary, 0, len(data.Tournaments.Nodes))
	for _, node := range data.Tournaments.Nodes {
		items = append(items, usecase.UpstreamTournamentSummary{
			ID:          node.ID,
			Name:        node.Name,
			Slug:        node.Slug,
			City:        node.City,
			CountryCode: node.CountryCode,
			StartAt:     node.StartAt,
		})
	}

	return paging.Page[usecase.UpstreamTournamentSummary]{
		Items:      items,
		TotalPages: data.Tournaments.PageInfo.TotalPages,
	}, nil
}

func mapSetNode(node setNode) usecase.UpstreamSet {
	out := usecase.UpstreamSet{
		ID:           node.ID,
		DisplayScore: node.DisplayScore,
	}
	if node.PhaseGroup != nil {
		out.PhaseIdentifier = node.PhaseGroup.DisplayIdentifier
		if node.PhaseGroup.Phase != nil {
			out.PhaseName = node.PhaseGroup.Phase.Name
		}
	}
	if node.Event != nil {
		out.EventName = node.Event.Name
		if node.Event.Tournament != nil {
			out.TournamentName = node.Event.Tournament.Name
		}
	}
	for _, slot := range node.Slots {
		if slot.Entrant != nil {
			out.SlotEntrantIDs = append(out.SlotEntrantIDs, slot.Entrant.ID)
		}
	}
	for _, game := range node.Games {
		mapped := usecase.UpstreamGame{}
		for _, selection := range game.Selections {
			if selection.Entrant == nil || selection.Character == nil {
				continue
			}
			mapped.Selections = append(mapped.Selections, usecase.UpstreamSelection{
				EntrantID:   selection.Entrant.ID,
				CharacterID: selection.Character.ID,
			})
		}
		out.Games = append(out.Games, mapped)
	}

	return out
}

func firstPlaceName(standings *standingsNode) string {
	if standings == nil || len(standings.Nodes) == 0 {
		return ""
	}
	entrant := standings.Nodes[0].Entrant
	if entrant == nil {
		return ""
	}
	return entrant.Name
}

// flightKey builds a deterministic dedup key from the query and its sorted
// variable names.
func flightKey(query string, variables map[string]any) string {
	keys := make([]string, 0, len(variables))
	for key := range variables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(query)
	for _, key := range keys {
		fmt.Fprintf(&b, "|%s=%v", key, variables[key])
	}
	return b.String()
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerTokenRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxErrorBodyBytes {
		return body[:maxErrorBodyBytes] + "..."
	}
	return body
}
