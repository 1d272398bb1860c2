package pipefy

import "context"

// Client is the flat surface the MCP tools call. It owns one PipeService
// and one CardService built on the same executor.
type Client struct {
	pipes *PipeService
	cards *CardService
}

// NewClient wires both services to exec.
func NewClient(exec Executor) *Client {
	return &Client{
		pipes: NewPipeService(exec),
		cards: NewCardService(exec),
	}
}

// NewClientWithServices builds a facade from pre-built services.
func NewClientWithServices(pipes *PipeService, cards *CardService) *Client {
	return &Client{pipes: pipes, cards: cards}
}

func (c *Client) GetPipe(ctx context.Context, pipeID int64) (map[string]any, error) {
	return c.pipes.GetPipe(ctx, pipeID)
}

func (c *Client) GetPipeMembers(ctx context.Context, pipeID int64) (map[string]any, error) {
	return c.pipes.GetPipeMembers(ctx, pipeID)
}

func (c *Client) GetStartFormFields(ctx context.Context, pipeID int64, requiredOnly bool) (map[string]any, error) {
	return c.pipes.GetStartFormFields(ctx, pipeID, requiredOnly)
}

func (c *Client) GetPhaseFields(ctx context.Context, phaseID int64, requiredOnly bool) (map[string]any, error) {
	return c.pipes.GetPhaseFields(ctx, phaseID, requiredOnly)
}

func (c *Client) SearchPipes(ctx context.Context, pipeName string, threshold float64) (map[string]any, error) {
	return c.pipes.SearchPipes(ctx, pipeName, threshold)
}

func (c *Client) CreateCard(ctx context.Context, pipeID int64, fields any) (map[string]any, error) {
	return c.cards.CreateCard(ctx, pipeID, fields)
}

func (c *Client) CreateComment(ctx context.Context, cardID int64, text string) (map[string]any, error) {
	return c.cards.CreateComment(ctx, cardID, text)
}

func (c *Client) UpdateComment(ctx context.Context, commentID int64, text string) (map[string]any, error) {
	return c.cards.UpdateComment(ctx, commentID, text)
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) (map[string]any, error) {
	return c.cards.DeleteComment(ctx, commentID)
}

func (c *Client) DeleteCard(ctx context.Context, cardID int64) (map[string]any, error) {
	return c.cards.DeleteCard(ctx, cardID)
}

func (c *Client) GetCard(ctx context.Context, cardID int64, includeFields bool) (map[string]any, error) {
	return c.cards.GetCard(ctx, cardID, includeFields)
}

func (c *Client) GetCards(ctx context.Context, pipeID int64, search *CardSearch, includeFields bool) (map[string]any, error) {
	return c.cards.GetCards(ctx, pipeID, search, includeFields)
}

func (c *Client) FindCards(ctx context.Context, pipeID int64, fieldID, fieldValue string, includeFields bool) (map[string]any, error) {
	return c.cards.FindCards(ctx, pipeID, fieldID, fieldValue, includeFields)
}

func (c *Client) MoveCardToPhase(ctx context.Context, cardID, destinationPhaseID int64) (map[string]any, error) {
	return c.cards.MoveCardToPhase(ctx, cardID, destinationPhaseID)
}

func (c *Client) UpdateCardField(ctx context.Context, cardID int64, fieldID string, newValue any) (map[string]any, error) {
	return c.cards.UpdateCardField(ctx, cardID, fieldID, newValue)
}

func (c *Client) UpdateCard(ctx context.Context, in UpdateCardInput) (map[string]any, error) {
	return c.cards.UpdateCard(ctx, in)
}
