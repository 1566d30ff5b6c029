package domain

// Event names broadcast through the notification hub.
const (
	EventDropCoin              = "dropCoin"
	EventHasWinner             = "hasWinner"
	EventDraw                  = "draw"
	EventComputerStartThinking = "computerStartThinking"
	EventComputerStopThinking  = "computerStopThinking"
	EventMouseClick            = "mouseClick"
)

type DropCoinEvent struct {
	Whose Mover `json:"whose"`
	Row   int   `json:"row"`
	Col   int   `json:"col"`
}

type HasWinnerEvent struct {
	Winner Mover `json:"winner"`
}

// NoPayload is sent with events that carry no data.
type NoPayload struct{}

type MouseClickEvent struct {
	X int `json:"x"`
	Y int `json:"y"`
}
