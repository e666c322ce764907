package api

import "net/http"

// Routes holds one handler per API operation.
type Routes struct {
	ListMessages              http.Handler
	SendMessage               http.Handler
	ResetConversation         http.Handler
	ListPrompts               http.Handler
	SavePrompt                http.Handler
	DeletePrompt              http.Handler
	SelectPrompt              http.Handler
	CreatePromptsFromMessages http.Handler
	GetSettings               http.Handler
	UpdateSettings            http.Handler
	StartBatch                http.Handler
	StopBatch                 http.Handler
	GetBatch                  http.Handler
}

func NewRouter(routes Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /api/messages", routes.ListMessages)
	mux.Handle("POST /api/messages", routes.SendMessage)
	mux.Handle("DELETE /api/messages", routes.ResetConversation)

	mux.Handle("GET /api/prompts", routes.ListPrompts)
	mux.Handle("POST /api/prompts", routes.SavePrompt)
	mux.Handle("DELETE /api/prompts/{id}", routes.DeletePrompt)
	mux.Handle("PUT /api/prompts/selected", routes.SelectPrompt)
	mux.Handle("POST /api/prompts/from-messages", routes.CreatePromptsFromMessages)

	mux.Handle("GET /api/settings", routes.GetSettings)
	mux.Handle("PATCH /api/settings", routes.UpdateSettings)

	mux.Handle("POST /api/batch", routes.StartBatch)
	mux.Handle("DELETE /api/batch", routes.StopBatch)
	mux.Handle("GET /api/batch", routes.GetBatch)

	return mux
}
