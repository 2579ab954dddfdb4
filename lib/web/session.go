package web

import (
	"github.com/gin-contrib/sessions"
	"go.uber.org/zap"
)

const (
	FlashMessageTypeKey    = "flash_message_type"
	FlashMessageContentKey = "flash_message_content"

	FlashTypeError   = "error"
	FlashTypeSuccess = "success"
)

func AddFlashMessage(session sessions.Session, msgType, msgContent string) {
	session.Set(FlashMessageTypeKey, msgType)
	session.Set(FlashMessageContentKey, msgContent)

	if err := session.Save(); err != nil {
		zap.L().Warn("Error saving cookie", zap.Error(err))
	}
}
