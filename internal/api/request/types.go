package request

// NicknameCheckRequest asks whether a nickname is free to use
type NicknameCheckRequest struct {
	Nickname string `json:"nickname"`
}
