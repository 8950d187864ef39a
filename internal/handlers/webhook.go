package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/ytakahashi/daily-checklist/internal/models"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

// Replier sends reply messages. *messaging_api.MessagingApiAPI satisfies it.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

type WebhookHandler struct {
	bot           Replier
	checklist     *services.ChecklistService
	channelSecret string
	logger        services.Logger
}

func NewWebhookHandler(bot Replier, checklist *services.ChecklistService, channelSecret string, logger services.Logger) *WebhookHandler {
	return &WebhookHandler{
		bot:           bot,
		checklist:     checklist,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

type command int

const (
	cmdUnknown command = iota
	cmdList
	cmdReset
	cmdHelp
)

// parseCommand maps a chat message to a command. Matching ignores case and
// surrounding whitespace, including full-width spaces.
func parseCommand(text string) command {
	normalized := strings.ToLower(strings.Trim(text, " \t\r\n　"))
	switch normalized {
	case "一覧", "チェックリスト", "list", "checklist":
		return cmdList
	case "リセット", "reset":
		return cmdReset
	case "ヘルプ", "help":
		return cmdHelp
	}
	return cmdUnknown
}

// parsePostback splits "complete:<itemId>" style postback data.
func parsePostback(data string) (action, itemID string, ok bool) {
	action, itemID, found := strings.Cut(data, ":")
	if !found || itemID == "" {
		return "", "", false
	}
	switch action {
	case "complete", "uncomplete":
		return action, itemID, true
	}
	return "", "", false
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request())
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("invalid webhook signature")
			return c.NoContent(http.StatusBadRequest)
		}
		h.logger.Error("failed to parse webhook request", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	ctx := c.Request().Context()
	for _, event := range cb.Events {
		switch e := event.(type) {
		case webhook.MessageEvent:
			switch message := e.Message.(type) {
			case webhook.TextMessageContent:
				if err := h.handleTextMessage(ctx, e.ReplyToken, message.Text); err != nil {
					h.logger.Error("failed to handle text message", "error", err)
				}
			}
		case webhook.PostbackEvent:
			if err := h.handlePostback(ctx, e.ReplyToken, e.Postback.Data); err != nil {
				h.logger.Error("failed to handle postback", "error", err)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) handleTextMessage(ctx context.Context, replyToken, text string) error {
	switch parseCommand(text) {
	case cmdList:
		return h.showChecklist(ctx, replyToken)
	case cmdReset:
		snapshot, err := h.checklist.ResetChecklist(ctx)
		if err != nil {
			h.replyMessage(replyToken, "チェックリストの作成に失敗しました。")
			return err
		}
		return h.replyChecklist(replyToken, snapshot)
	case cmdHelp:
		return h.showHelp(replyToken)
	}

	// 認識できないメッセージには応答しない
	return nil
}

func (h *WebhookHandler) handlePostback(ctx context.Context, replyToken, data string) error {
	action, itemID, ok := parsePostback(data)
	if !ok {
		return nil
	}

	var snapshot *models.DailySnapshot
	var err error
	if action == "complete" {
		snapshot, err = h.checklist.MarkItemComplete(ctx, itemID)
	} else {
		snapshot, err = h.checklist.MarkItemUncomplete(ctx, itemID)
	}
	if errors.Is(err, services.ErrNotFound) {
		return h.replyMessage(replyToken, "この項目は今日のチェックリストにありません。「リセット」で作り直してください。")
	}
	if err != nil {
		h.replyMessage(replyToken, "チェックリストの更新に失敗しました。")
		return err
	}

	return h.replyChecklist(replyToken, snapshot)
}

func (h *WebhookHandler) showChecklist(ctx context.Context, replyToken string) error {
	snapshot, err := h.checklist.GetTodayChecklist(ctx)
	if errors.Is(err, services.ErrNotFound) {
		return h.replyMessage(replyToken, "今日のチェックリストはまだありません。「リセット」で作成してください。")
	}
	if err != nil {
		h.replyMessage(replyToken, "チェックリストの取得に失敗しました。")
		return err
	}

	return h.replyChecklist(replyToken, snapshot)
}

func (h *WebhookHandler) replyChecklist(replyToken string, snapshot *models.DailySnapshot) error {
	if len(snapshot.Items) == 0 {
		return h.replyMessage(replyToken, "チェックリストに項目がありません。")
	}

	_, err := h.bot.ReplyMessage(
		&messaging_api.ReplyMessageRequest{
			ReplyToken: replyToken,
			Messages:   []messaging_api.MessageInterface{h.createChecklistFlexMessage(snapshot)},
		},
	)
	return err
}

func (h *WebhookHandler) createChecklistFlexMessage(snapshot *models.DailySnapshot) *messaging_api.FlexMessage {
	var contents []messaging_api.FlexComponentInterface
	done := 0

	for i, item := range snapshot.Items {
		var button *messaging_api.FlexButton
		mark := "⬜"
		if item.Complete {
			done++
			mark = "✅"
			button = &messaging_api.FlexButton{
				Action: &messaging_api.PostbackAction{
					Label: "未完了に戻す",
					Data:  fmt.Sprintf("uncomplete:%s", item.ItemID),
				},
				Style: "secondary",
			}
		} else {
			button = &messaging_api.FlexButton{
				Action: &messaging_api.PostbackAction{
					Label: "完了",
					Data:  fmt.Sprintf("complete:%s", item.ItemID),
				},
				Style: "primary",
				Color: "#1DB446",
			}
		}

		box := &messaging_api.FlexBox{
			Layout: "vertical",
			Contents: []messaging_api.FlexComponentInterface{
				&messaging_api.FlexText{
					Text:   fmt.Sprintf("%s %s", mark, item.Label),
					Weight: "bold",
					Size:   "md",
				},
				&messaging_api.FlexText{
					Text:  categoryLabel(item.Category),
					Size:  "sm",
					Color: "#999999",
				},
				button,
			},
			Margin:  "md",
			Spacing: "sm",
		}

		if i > 0 {
			box.PaddingTop = "md"
		}

		contents = append(contents, box)
	}

	title := fmt.Sprintf("%s のチェックリスト (%d/%d)", snapshot.Date, done, len(snapshot.Items))
	return &messaging_api.FlexMessage{
		AltText: title,
		Contents: &messaging_api.FlexBubble{
			Header: &messaging_api.FlexBox{
				Layout: "vertical",
				Contents: []messaging_api.FlexComponentInterface{
					&messaging_api.FlexText{
						Text:   title,
						Weight: "bold",
						Size:   "lg",
					},
				},
				PaddingAll: "md",
			},
			Body: &messaging_api.FlexBox{
				Layout:   "vertical",
				Contents: contents,
				Spacing:  "md",
			},
		},
	}
}

func categoryLabel(c models.Category) string {
	switch c {
	case models.CategoryMorning:
		return "朝"
	case models.CategoryAfternoon:
		return "昼"
	case models.CategoryNight:
		return "夜"
	}
	return string(c)
}

func (h *WebhookHandler) showHelp(replyToken string) error {
	helpText := `✅ チェックリスト Bot 使い方

📋 今日のチェックリストを表示:
・一覧
・チェックリスト

🔄 今日のチェックリストを作り直す:
・リセット
・その日のチェックはすべて初期状態に戻ります

✔️ 完了/未完了の切り替え:
・一覧のボタンを押してください

❓ ヘルプ表示:
・ヘルプ`

	return h.replyMessage(replyToken, helpText)
}

func (h *WebhookHandler) replyMessage(replyToken, text string) error {
	message := &messaging_api.TextMessage{
		Text: text,
	}

	_, err := h.bot.ReplyMessage(
		&messaging_api.ReplyMessageRequest{
			ReplyToken: replyToken,
			Messages:   []messaging_api.MessageInterface{message},
		},
	)

	if err != nil {
		h.logger.Error("failed to send reply message", "error", err)
	}

	return err
}
