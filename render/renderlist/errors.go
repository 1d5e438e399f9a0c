package renderlist

import "errors"

var (
	ErrUnbalancedRenderGroup = errors.New("renderlist: PopRenderGroup without matching PushRenderGroup")
	ErrOpenRenderGroup       = errors.New("renderlist: render group still open")
	ErrFinished              = errors.New("renderlist: list is finished, call Init first")
)
