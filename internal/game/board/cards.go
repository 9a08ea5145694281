package board

// EffectKind 卡牌效果类型（封闭集合，由引擎内唯一的求值器解释）
type EffectKind int

const (
	EffectMoveAbsolute   EffectKind = iota // 前进到指定格（沿途过起点有奖励，落地效果会触发）
	EffectMoveRelative                     // 相对移动（约定为后退，落地效果不触发）
	EffectCash                             // 抽卡者现金变动
	EffectCashEveryone                     // 抽卡者与其余每名在局玩家之间转账
	EffectGoToJail                         // 直接入狱
)

// DeckKind 牌堆类型
type DeckKind int

const (
	DeckChance    DeckKind = iota // 机会
	DeckCommunity                 // 公益基金
)

// Card 卡牌定义
type Card struct {
	Text   string     `json:"text"`
	Effect EffectKind `json:"effect"`
	Target int        `json:"target,omitempty"` // EffectMoveAbsolute 的目标格
	Offset int        `json:"offset,omitempty"` // EffectMoveRelative 的步数（负数为后退）
	Amount int        `json:"amount,omitempty"` // 现金效果金额
}

// chanceCards 机会牌堆
var chanceCards = []Card{
	{Text: "前进到起点，领取奖励", Effect: EffectMoveAbsolute, Target: 0},
	{Text: "前进到朝阳大道", Effect: EffectMoveAbsolute, Target: 21},
	{Text: "前进到云麓山庄", Effect: EffectMoveAbsolute, Target: 39},
	{Text: "前进到东郊车站", Effect: EffectMoveAbsolute, Target: 5},
	{Text: "后退三格", Effect: EffectMoveRelative, Offset: -3},
	{Text: "银行派发红利，获得50", Effect: EffectCash, Amount: 50},
	{Text: "缴纳超速罚款15", Effect: EffectCash, Amount: -15},
	{Text: "房屋维修，支付100", Effect: EffectCash, Amount: -100},
	{Text: "当选商会主席，向每位玩家支付50", Effect: EffectCashEveryone, Amount: -50},
	{Text: "立即入狱，不经过起点", Effect: EffectGoToJail},
}

// communityCards 公益基金牌堆
var communityCards = []Card{
	{Text: "前进到起点，领取奖励", Effect: EffectMoveAbsolute, Target: 0},
	{Text: "银行失误，获得200", Effect: EffectCash, Amount: 200},
	{Text: "医疗费用，支付50", Effect: EffectCash, Amount: -50},
	{Text: "出售股票，获得45", Effect: EffectCash, Amount: 45},
	{Text: "继承遗产，获得100", Effect: EffectCash, Amount: 100},
	{Text: "生日快乐，每位玩家送你10", Effect: EffectCashEveryone, Amount: 10},
	{Text: "缴纳学费，支付150", Effect: EffectCash, Amount: -150},
	{Text: "税款退还，获得20", Effect: EffectCash, Amount: 20},
	{Text: "立即入狱，不经过起点", Effect: EffectGoToJail},
}

// Deck 返回指定牌堆
func Deck(kind DeckKind) []Card {
	if kind == DeckChance {
		return chanceCards
	}
	return communityCards
}
