package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// ChatListWidthRatio is the denominator for the chat list width (1/5)
	ChatListWidthRatio = 5

	// TextareaHeight is the number of lines for the input textarea
	TextareaHeight = 3

	// InputPaddingWidth is the horizontal padding inside the input area
	InputPaddingWidth = 2

	// InputTotalHeight is the input area including its border
	InputTotalHeight = TextareaHeight + BorderSize

	// InputCharLimit caps the compose buffer
	InputCharLimit = 4096

	// MinTerminalWidth and MinTerminalHeight keep every panel positive
	MinTerminalWidth  = 40
	MinTerminalHeight = 12
)

// LastSeenLayout formats offline presence in the conversation header.
const LastSeenLayout = "2006-01-02 15:04:05"
