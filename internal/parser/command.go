// 本文件为指令行解析器：把一行括号指令解析为类型化指令记录
// 指令有两种载荷：简单键值对，以及 data:{...} 内嵌 JSON
package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"phone_sim_server/internal/dto/command"
	"phone_sim_server/internal/model"
	"phone_sim_server/pkg/constants"
)

var (
	// 外层文法：[app:Xxx, ...]
	outerRe = regexp.MustCompile(`(?s)^\s*\[app:([^,]+),\s*(.+)\]\s*$`)
	typeRe  = regexp.MustCompile(`type:\s*([^,]+)`)
	dataRe  = regexp.MustCompile(`(?s)data:\s*(\{.*\})`)
	urlRe   = regexp.MustCompile(`url:\s*([^,]+)`)
	titleRe = regexp.MustCompile(`title:\s*([^,]+)`)

	// 键值分隔点：逗号后面紧跟下一个键名与冒号才算分隔，值里的普通逗号不切
	kvSepRe = regexp.MustCompile(`,\s*\w+\s*:`)

	// "昵称 (备注)" 形态
	namePairRe = regexp.MustCompile(`(.*?)\s*\(([^)]+)\)`)

	friendRequestPhrase = "requests to add you as a friend"
	friendRequestRe     = regexp.MustCompile(`“(.+)” ` + friendRequestPhrase)

	validate = validator.New()
)

// momentPayload 新动态的 JSON 载荷
type momentPayload struct {
	MomentID       string   `json:"moment_id" validate:"required"`
	PosterID       string   `json:"poster_id" validate:"required"`
	PosterNickname string   `json:"poster_nickname"`
	Time           string   `json:"time"`
	Content        string   `json:"content"`
	Images         []string `json:"images"`
	Location       string   `json:"location"`
	Likes          []string `json:"likes"`
	Comments       []struct {
		CommenterID string `json:"commenterId"`
		Text        string `json:"text"`
	} `json:"comments"`
}

// momentUpdatePayload 动态点赞/评论的 JSON 载荷
type momentUpdatePayload struct {
	MomentID string `json:"moment_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=like comment"`
	ActorID  string `json:"actor_id" validate:"required"`
	Content  string `json:"content"`
}

// profilePayload 资料更新的 JSON 载荷
type profilePayload struct {
	ProfileID  string `json:"profile_id" validate:"required"`
	Bio        string `json:"bio"`
	CoverImage string `json:"cover_image"`
}

// forumPostPayload 新帖子的 JSON 载荷
type forumPostPayload struct {
	PostID     string   `json:"postId"`
	BoardID    string   `json:"boardId" validate:"required"`
	BoardName  string   `json:"boardName"`
	AuthorID   string   `json:"authorId" validate:"required"`
	AuthorName string   `json:"authorName"`
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content"`
	Time       string   `json:"time"`
	Tags       []string `json:"tags"`
	Likes      []string `json:"likes"`
}

// forumReplyPayload 新回复的 JSON 载荷
type forumReplyPayload struct {
	PostID     string `json:"postId" validate:"required"`
	AuthorID   string `json:"authorId" validate:"required"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	Time       string `json:"time"`
}

// forumUpdatePayload 帖子点赞的 JSON 载荷
type forumUpdatePayload struct {
	PostID  string `json:"postId" validate:"required"`
	Action  string `json:"action" validate:"required,oneof=like"`
	ActorID string `json:"actor_id" validate:"required"`
}

// liveDirectoryPayload 直播目录更新的 JSON 载荷
type liveDirectoryPayload struct {
	BoardID   string             `json:"boardId" validate:"required"`
	BoardName string             `json:"boardName"`
	Streams   []model.LiveStream `json:"streams" validate:"required"`
}

// liveStatusPayload 直播间状态的 JSON 载荷
type liveStatusPayload struct {
	StreamerID   string          `json:"streamerId" validate:"required"`
	StreamerName string          `json:"streamerName"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Viewers      string          `json:"viewers"`
	Danmaku      []model.Danmaku `json:"danmaku"`
}

// pageBlockPayload 网页内容块的 JSON 载荷
type pageBlockPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseCommand 解析单行指令，无法识别时返回 nil
// 识别但格式非法（缺 data、JSON 解析失败、校验不过）也返回 nil，只记日志，不中断整批
func ParseCommand(line string) command.Command {
	outer := outerRe.FindStringSubmatch(strings.TrimSpace(line))
	if outer == nil {
		return nil
	}
	appName := strings.TrimSpace(outer[1])
	paramsStr := outer[2]

	typeMatch := typeRe.FindStringSubmatch(paramsStr)
	if typeMatch == nil {
		return nil
	}
	cmdType := strings.TrimSpace(typeMatch[1])

	if isJSONCommand(appName, cmdType) {
		return parseJSONCommand(line, appName, cmdType, paramsStr)
	}
	if appName == constants.AppBrowser && cmdType == constants.TypeWebpage {
		return parseWebpage(line, paramsStr)
	}

	params := splitSimplePairs(paramsStr)
	if params["type"] == "" {
		return nil
	}

	switch appName {
	case constants.AppWeChat:
		return parseWeChat(cmdType, params)
	case constants.AppBrowser:
		if cmdType == constants.TypeSearchDirectory {
			return command.BrowserSearch{
				Title:   params["title"],
				URL:     params["url"],
				Snippet: params["snippet"],
			}
		}
	case constants.AppPhone:
		switch cmdType {
		case constants.TypePhoneCall:
			return command.PhoneCall{ContactID: params["id"], Name: params["name"], Content: params["content"]}
		case constants.TypeIncomingCall:
			return command.IncomingCall{FromID: params["from_id"], FromName: params["from_name"]}
		}
	case constants.AppEmail:
		if cmdType == constants.TypeEmailNew {
			return command.Email{
				FromID:         params["from_id"],
				FromName:       params["from_name"],
				Subject:        params["subject"],
				Content:        params["content"],
				AttachmentName: params["attachment_name"],
				AttachmentDesc: params["attachment_desc"],
			}
		}
	}
	return nil
}

// isJSONCommand 判断该指令的载荷是否为 data:{...} JSON 形式
func isJSONCommand(appName, cmdType string) bool {
	switch appName {
	case constants.AppWeChat:
		return cmdType == constants.TypeNewMoment || cmdType == constants.TypeUpdateProfile || cmdType == constants.TypeUpdateMoment
	case constants.AppForum:
		return cmdType == constants.TypeNewPost || cmdType == constants.TypeNewReply || cmdType == constants.TypeUpdatePost
	case constants.AppLiveCenter:
		return cmdType == constants.TypeDirectoryUpdate || cmdType == constants.TypeStreamStatus
	}
	return false
}

// decodePayload 解 JSON 并做结构校验
func decodePayload(raw string, out any) error {
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return err
	}
	return validate.Struct(out)
}

func parseJSONCommand(line, appName, cmdType, paramsStr string) command.Command {
	dataMatch := dataRe.FindStringSubmatch(paramsStr)
	if dataMatch == nil {
		zap.L().Error("指令缺少 data:{...} JSON 载荷",
			zap.String("app", appName), zap.String("type", cmdType), zap.String("line", line))
		return nil
	}
	raw := dataMatch[1]

	var cmd command.Command
	var err error
	switch {
	case appName == constants.AppWeChat && cmdType == constants.TypeNewMoment:
		var p momentPayload
		if err = decodePayload(raw, &p); err == nil {
			comments := make([]model.MomentComment, 0, len(p.Comments))
			for _, c := range p.Comments {
				comments = append(comments, model.MomentComment{
					UID:         "comment_" + uuid.NewString(),
					CommenterID: c.CommenterID,
					Text:        c.Text,
				})
			}
			cmd = command.Moment{
				MomentID:   p.MomentID,
				PosterID:   p.PosterID,
				PosterName: p.PosterNickname,
				Time:       p.Time,
				Content:    ParseContent(p.Content),
				Images:     p.Images,
				Location:   p.Location,
				Likes:      p.Likes,
				Comments:   comments,
			}
		}
	case appName == constants.AppWeChat && cmdType == constants.TypeUpdateProfile:
		var p profilePayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.ProfileUpdate{ProfileID: p.ProfileID, Bio: p.Bio, CoverImage: p.CoverImage}
		}
	case appName == constants.AppWeChat && cmdType == constants.TypeUpdateMoment:
		var p momentUpdatePayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.MomentUpdate{MomentID: p.MomentID, Action: p.Action, ActorID: p.ActorID, Content: p.Content}
		}
	case appName == constants.AppForum && cmdType == constants.TypeNewPost:
		var p forumPostPayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.ForumPost{
				PostID:     p.PostID,
				BoardID:    p.BoardID,
				BoardName:  p.BoardName,
				AuthorID:   p.AuthorID,
				AuthorName: p.AuthorName,
				Title:      p.Title,
				Content:    ParseContent(p.Content),
				Time:       p.Time,
				Tags:       p.Tags,
				Likes:      p.Likes,
			}
		}
	case appName == constants.AppForum && cmdType == constants.TypeNewReply:
		var p forumReplyPayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.ForumReply{
				PostID:     p.PostID,
				AuthorID:   p.AuthorID,
				AuthorName: p.AuthorName,
				Content:    ParseContent(p.Content),
				Time:       p.Time,
			}
		}
	case appName == constants.AppForum && cmdType == constants.TypeUpdatePost:
		var p forumUpdatePayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.ForumUpdate{PostID: p.PostID, Action: p.Action, ActorID: p.ActorID}
		}
	case appName == constants.AppLiveCenter && cmdType == constants.TypeDirectoryUpdate:
		var p liveDirectoryPayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.LiveDirectory{BoardID: p.BoardID, BoardName: p.BoardName, Streams: p.Streams}
		}
	case appName == constants.AppLiveCenter && cmdType == constants.TypeStreamStatus:
		var p liveStatusPayload
		if err = decodePayload(raw, &p); err == nil {
			cmd = command.LiveStatus{
				StreamerID:   p.StreamerID,
				StreamerName: p.StreamerName,
				Title:        p.Title,
				Content:      p.Content,
				Viewers:      p.Viewers,
				Danmaku:      p.Danmaku,
			}
		}
	}
	if err != nil {
		zap.L().Error("指令 JSON 载荷非法",
			zap.String("app", appName), zap.String("type", cmdType),
			zap.String("json", raw), zap.Error(err))
		return nil
	}
	return cmd
}

// parseWebpage 网页指令：url/title 为键值，content 为尾部 JSON 数组
func parseWebpage(line, paramsStr string) command.Command {
	urlMatch := urlRe.FindStringSubmatch(paramsStr)
	titleMatch := titleRe.FindStringSubmatch(paramsStr)
	contentIdx := strings.Index(paramsStr, "content:")
	if urlMatch == nil || titleMatch == nil || contentIdx < 0 {
		zap.L().Error("网页指令缺少 url/title/content", zap.String("line", line))
		return nil
	}

	contentStr := strings.TrimSpace(paramsStr[contentIdx+len("content:"):])
	var blocks []pageBlockPayload
	if err := json.Unmarshal([]byte(contentStr), &blocks); err != nil {
		zap.L().Error("网页内容 JSON 非法", zap.String("json", contentStr), zap.Error(err))
		return nil
	}

	content := make([]model.PageBlock, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, model.PageBlock{Type: b.Type, Text: ParseContent(b.Text)})
	}
	return command.BrowserPage{
		URL:     strings.TrimSpace(urlMatch[1]),
		Title:   strings.TrimSpace(titleMatch[1]),
		Content: content,
	}
}

// parseWeChat 微信类简单键值指令
func parseWeChat(cmdType string, params map[string]string) command.Command {
	switch cmdType {
	case constants.TypePrivateMessage:
		return parsePrivateMessage(params)
	case constants.TypeGroupChat:
		return command.Chat{
			GroupID:       params["group_id"],
			GroupName:     params["group_name"],
			SenderID:      params["sender_id"],
			SenderProfile: &model.Profile{Nickname: params["sender_name"], Note: params["sender_name"]},
			Content:       ParseContent(params["content"]),
			Time:          params["time"],
			IsGroup:       true,
		}
	case constants.TypeVoice:
		return command.VoiceCall{ContactID: params["id"], Name: params["name"], Content: params["content"]}
	case constants.TypeSystemPrompt:
		content := params["content"]
		if strings.Contains(content, friendRequestPhrase) {
			fromName := params["contact_id"]
			if m := friendRequestRe.FindStringSubmatch(content); m != nil {
				fromName = m[1]
			}
			return command.FriendRequest{
				FromID:   params["contact_id"],
				FromName: fromName,
				Content:  friendRequestPhrase,
				Time:     params["time"],
			}
		}
		return command.Chat{
			ContactID: params["contact_id"],
			Content:   ParseContent(content),
			Time:      params["time"],
			IsSystem:  true,
		}
	case constants.TypeFriendRequest:
		fromID := params["from_id"]
		if fromID == "" {
			fromID = params["id"]
		}
		fromName := params["from_name"]
		if fromName == "" {
			fromName = params["name"]
		}
		if fromName == "" {
			fromName = fromID
		}
		return command.FriendRequest{
			FromID:   fromID,
			FromName: fromName,
			Content:  params["content"],
			Time:     params["time"],
		}
	}
	return nil
}

// parsePrivateMessage 私聊消息：带 from/to 的定向形态，或仅 id/name 的旧形态
func parsePrivateMessage(params map[string]string) command.Command {
	fromID, toID := params["from_id"], params["to_id"]
	if fromID != "" && toID != "" {
		isFromPlayer := fromID == "{{user}}" || fromID == constants.PlayerID
		isToPlayer := toID == "{{user}}" || toID == constants.PlayerID
		switch {
		case isFromPlayer && !isToPlayer: // 玩家 -> NPC
			return command.Chat{
				ContactID: toID,
				SenderID:  constants.PlayerID,
				Content:   ParseContent(params["content"]),
				Time:      params["time"],
			}
		case !isFromPlayer && isToPlayer: // NPC -> 玩家
			return command.Chat{
				ContactID: fromID,
				SenderID:  fromID,
				Profile:   splitName(params["from_name"]),
				Content:   ParseContent(params["content"]),
				Time:      params["time"],
			}
		default:
			// NPC 之间或玩家发给自己，不入库
			zap.L().Warn("不支持的消息方向", zap.String("from", fromID), zap.String("to", toID))
			return nil
		}
	}

	// 旧形态始终为 NPC -> 玩家
	return command.Chat{
		ContactID: params["id"],
		SenderID:  params["id"],
		Profile:   splitName(params["name"]),
		Content:   ParseContent(params["content"]),
		Time:      params["time"],
	}
}

// splitName 拆 "昵称 (备注)"，无括号时昵称与备注同值
func splitName(name string) *model.Profile {
	name = strings.Trim(strings.TrimSpace(name), `"`)
	if m := namePairRe.FindStringSubmatch(name); m != nil && strings.TrimSpace(m[1]) != "" {
		return &model.Profile{Nickname: strings.TrimSpace(m[1]), Note: strings.TrimSpace(m[2])}
	}
	return &model.Profile{Nickname: name, Note: name}
}

// trimQuotes 去掉成对的包裹引号，值内部的引号保留
func trimQuotes(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}

// splitSimplePairs 解析简单键值载荷
// 值中可以出现逗号，只有后面紧跟 "键名:" 的逗号才作为分隔
func splitSimplePairs(s string) map[string]string {
	params := make(map[string]string)
	seps := kvSepRe.FindAllStringIndex(s, -1)

	cuts := make([]int, 0, len(seps)+2)
	cuts = append(cuts, 0)
	for _, sep := range seps {
		cuts = append(cuts, sep[0])
	}
	cuts = append(cuts, len(s))

	for i := 0; i+1 < len(cuts); i++ {
		pair := s[cuts[i]:cuts[i+1]]
		pair = strings.TrimPrefix(pair, ",")
		idx := strings.Index(pair, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(pair[:idx])
		if key == "" {
			continue
		}
		params[key] = trimQuotes(strings.TrimSpace(pair[idx+1:]))
	}
	return params
}
