package discord

// Activity is the Rich Presence payload of a SET_ACTIVITY command.
type Activity struct {
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
}

// Timestamps drive the elapsed or remaining timer, in Unix milliseconds.
type Timestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// IsEmpty reports whether the activity has nothing to display.
func (a *Activity) IsEmpty() bool {
	if a == nil {
		return true
	}
	noTimer := a.Timestamps == nil || (a.Timestamps.Start == 0 && a.Timestamps.End == 0)
	return a.Details == "" && a.State == "" && noTimer
}

// User is the account the chat client reports in its READY event.
type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

// DisplayName prefers the global name over the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

type handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type command struct {
	Cmd   string      `json:"cmd"`
	Args  interface{} `json:"args"`
	Nonce string      `json:"nonce"`
}

type setActivityArgs struct {
	PID      int       `json:"pid"`
	Activity *Activity `json:"activity"`
}

type response struct {
	Cmd   string `json:"cmd"`
	Evt   string `json:"evt"`
	Nonce string `json:"nonce"`
	Data  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		User    *User  `json:"user"`
	} `json:"data"`
}

type closePayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
