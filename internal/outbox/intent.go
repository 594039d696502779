package outbox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lxdao/fairsharing/internal/logic"
)

// IntentKey 待补偿创建参数的存储键，按钱包区分
const IntentKey = "__fairSharing_create_project_params__"

// Stage 意图所处阶段
type Stage string

const (
	StagePending  Stage = "pending"  // 已保存，交易未发出
	StageSent     Stage = "sent"     // 交易已发出，回执未确认
	StageMined    Stage = "mined"    // 链上交易已确认
	StageResolved Stage = "resolved" // 已获得项目合约地址
)

// Intent 一次创建项目的持久化记录，链下登记成功后删除
type Intent struct {
	ID        string                `json:"id"`
	Wallet    string                `json:"wallet"`
	Stage     Stage                 `json:"stage"`
	Project   logic.RegisterProject `json:"project"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func intentKey(wallet string) string {
	return IntentKey + ":" + strings.ToLower(wallet)
}

func encodeIntent(in *Intent) ([]byte, error) {
	return json.Marshal(in)
}

func decodeIntent(data []byte) (*Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode intent: %w", err)
	}
	return &in, nil
}
