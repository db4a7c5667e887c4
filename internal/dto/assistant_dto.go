package dto

// AskRequest mirrors the external channels that can address a user:
// exactly one of the id fields must be set.
type AskRequest struct {
	Question   string `json:"question" validate:"required"`
	UserId     string `json:"user_id"`
	WhatsappId string `json:"whatsapp_id"`
	TwitterId  string `json:"twitter_id"`
}

// ResolveUserId returns the first non-empty identity field.
func (r *AskRequest) ResolveUserId() string {
	switch {
	case r.UserId != "":
		return r.UserId
	case r.WhatsappId != "":
		return r.WhatsappId
	case r.TwitterId != "":
		return r.TwitterId
	default:
		return ""
	}
}

type AskResponse struct {
	Response string `json:"response"`
}

type RebuildResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	IndexVersion string `json:"index_version"`
	Watcher      any    `json:"watcher"`
}
