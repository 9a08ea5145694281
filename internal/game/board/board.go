// Package board 提供两种经济玩法的静态棋盘与事件目录。
// 所有表都是不可变数据，引擎只读。
package board

// SpaceKind 地产棋盘格子类型（封闭集合，移动/租金逻辑需穷尽匹配）
type SpaceKind int

const (
	KindGo          SpaceKind = iota // 起点
	KindStreet                       // 普通地产
	KindRail                         // 车站
	KindUtility                      // 公用事业
	KindTax                          // 税收
	KindChance                       // 机会卡
	KindCommunity                    // 公益卡
	KindJail                         // 监狱（探视）
	KindGoToJail                     // 入狱
	KindFreeParking                  // 免费停车
)

// String 返回格子类型名称
func (k SpaceKind) String() string {
	switch k {
	case KindGo:
		return "go"
	case KindStreet:
		return "street"
	case KindRail:
		return "rail"
	case KindUtility:
		return "utility"
	case KindTax:
		return "tax"
	case KindChance:
		return "chance"
	case KindCommunity:
		return "community"
	case KindJail:
		return "jail"
	case KindGoToJail:
		return "go_to_jail"
	case KindFreeParking:
		return "free_parking"
	}
	return "unknown"
}

// Purchasable 判断该类型格子是否可购买
func (k SpaceKind) Purchasable() bool {
	return k == KindStreet || k == KindRail || k == KindUtility
}

// Group 地产颜色分组
type Group string

const (
	GroupNone      Group = ""
	GroupBrown     Group = "brown"
	GroupLightBlue Group = "lightblue"
	GroupPink      Group = "pink"
	GroupOrange    Group = "orange"
	GroupRed       Group = "red"
	GroupYellow    Group = "yellow"
	GroupGreen     Group = "green"
	GroupBlue      Group = "blue"
	GroupRail      Group = "rail"
	GroupUtility   Group = "utility"
)

// Space 地产棋盘格子定义
type Space struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	Kind     SpaceKind `json:"kind"`
	Group    Group     `json:"group,omitempty"`
	Price    int       `json:"price,omitempty"`
	Rents    [6]int    `json:"rents,omitempty"` // [基础租金, 1栋, 2栋, 3栋, 4栋, 酒店]
	Mortgage int       `json:"mortgage,omitempty"`
	Tax      int       `json:"tax,omitempty"`
}

// 地产棋盘常量
const (
	PropertyBoardSize = 40 // 格子总数
	JailIndex         = 10 // 监狱位置
	GoToJailIndex     = 30 // 入狱格位置
	MaxHouses         = 5  // 最高改良等级（5为酒店）
	RailBaseRent      = 25 // 车站基础租金，持有n个时为 25×2^(n-1)
)

// houseCosts 每组地产的统一建房成本
var houseCosts = map[Group]int{
	GroupBrown:     50,
	GroupLightBlue: 50,
	GroupPink:      100,
	GroupOrange:    100,
	GroupRed:       150,
	GroupYellow:    150,
	GroupGreen:     200,
	GroupBlue:      200,
}

// groupSizes 每组地产的格子数（垄断判定用）
var groupSizes = map[Group]int{
	GroupBrown:     2,
	GroupLightBlue: 3,
	GroupPink:      3,
	GroupOrange:    3,
	GroupRed:       3,
	GroupYellow:    3,
	GroupGreen:     3,
	GroupBlue:      2,
	GroupRail:      4,
	GroupUtility:   2,
}

// propertyBoard 地产棋盘（索引即位置）
var propertyBoard = []Space{
	{Index: 0, Name: "起点", Kind: KindGo},
	{Index: 1, Name: "老城南街", Kind: KindStreet, Group: GroupBrown, Price: 60, Rents: [6]int{2, 10, 30, 90, 160, 250}, Mortgage: 30},
	{Index: 2, Name: "公益基金", Kind: KindCommunity},
	{Index: 3, Name: "老城北街", Kind: KindStreet, Group: GroupBrown, Price: 60, Rents: [6]int{4, 20, 60, 180, 320, 450}, Mortgage: 30},
	{Index: 4, Name: "所得税", Kind: KindTax, Tax: 200},
	{Index: 5, Name: "东郊车站", Kind: KindRail, Group: GroupRail, Price: 200, Mortgage: 100},
	{Index: 6, Name: "滨河东路", Kind: KindStreet, Group: GroupLightBlue, Price: 100, Rents: [6]int{6, 30, 90, 270, 400, 550}, Mortgage: 50},
	{Index: 7, Name: "机会", Kind: KindChance},
	{Index: 8, Name: "滨河中路", Kind: KindStreet, Group: GroupLightBlue, Price: 100, Rents: [6]int{6, 30, 90, 270, 400, 550}, Mortgage: 50},
	{Index: 9, Name: "滨河西路", Kind: KindStreet, Group: GroupLightBlue, Price: 120, Rents: [6]int{8, 40, 100, 300, 450, 600}, Mortgage: 60},
	{Index: 10, Name: "监狱", Kind: KindJail},
	{Index: 11, Name: "梧桐一巷", Kind: KindStreet, Group: GroupPink, Price: 140, Rents: [6]int{10, 50, 150, 450, 625, 750}, Mortgage: 70},
	{Index: 12, Name: "电力公司", Kind: KindUtility, Group: GroupUtility, Price: 150, Mortgage: 75},
	{Index: 13, Name: "梧桐二巷", Kind: KindStreet, Group: GroupPink, Price: 140, Rents: [6]int{10, 50, 150, 450, 625, 750}, Mortgage: 70},
	{Index: 14, Name: "梧桐三巷", Kind: KindStreet, Group: GroupPink, Price: 160, Rents: [6]int{12, 60, 180, 500, 700, 900}, Mortgage: 80},
	{Index: 15, Name: "南郊车站", Kind: KindRail, Group: GroupRail, Price: 200, Mortgage: 100},
	{Index: 16, Name: "文华路", Kind: KindStreet, Group: GroupOrange, Price: 180, Rents: [6]int{14, 70, 200, 550, 750, 950}, Mortgage: 90},
	{Index: 17, Name: "公益基金", Kind: KindCommunity},
	{Index: 18, Name: "文景路", Kind: KindStreet, Group: GroupOrange, Price: 180, Rents: [6]int{14, 70, 200, 550, 750, 950}, Mortgage: 90},
	{Index: 19, Name: "文昌路", Kind: KindStreet, Group: GroupOrange, Price: 200, Rents: [6]int{16, 80, 220, 600, 800, 1000}, Mortgage: 100},
	{Index: 20, Name: "免费停车", Kind: KindFreeParking},
	{Index: 21, Name: "朝阳大道", Kind: KindStreet, Group: GroupRed, Price: 220, Rents: [6]int{18, 90, 250, 700, 875, 1050}, Mortgage: 110},
	{Index: 22, Name: "机会", Kind: KindChance},
	{Index: 23, Name: "朝晖大道", Kind: KindStreet, Group: GroupRed, Price: 220, Rents: [6]int{18, 90, 250, 700, 875, 1050}, Mortgage: 110},
	{Index: 24, Name: "朝华大道", Kind: KindStreet, Group: GroupRed, Price: 240, Rents: [6]int{20, 100, 300, 750, 925, 1100}, Mortgage: 120},
	{Index: 25, Name: "西郊车站", Kind: KindRail, Group: GroupRail, Price: 200, Mortgage: 100},
	{Index: 26, Name: "金桂街", Kind: KindStreet, Group: GroupYellow, Price: 260, Rents: [6]int{22, 110, 330, 800, 975, 1150}, Mortgage: 130},
	{Index: 27, Name: "银桂街", Kind: KindStreet, Group: GroupYellow, Price: 260, Rents: [6]int{22, 110, 330, 800, 975, 1150}, Mortgage: 130},
	{Index: 28, Name: "自来水厂", Kind: KindUtility, Group: GroupUtility, Price: 150, Mortgage: 75},
	{Index: 29, Name: "丹桂街", Kind: KindStreet, Group: GroupYellow, Price: 280, Rents: [6]int{24, 120, 360, 850, 1025, 1200}, Mortgage: 140},
	{Index: 30, Name: "入狱", Kind: KindGoToJail},
	{Index: 31, Name: "翠湖路", Kind: KindStreet, Group: GroupGreen, Price: 300, Rents: [6]int{26, 130, 390, 900, 1100, 1275}, Mortgage: 150},
	{Index: 32, Name: "翠微路", Kind: KindStreet, Group: GroupGreen, Price: 300, Rents: [6]int{26, 130, 390, 900, 1100, 1275}, Mortgage: 150},
	{Index: 33, Name: "公益基金", Kind: KindCommunity},
	{Index: 34, Name: "翠屏路", Kind: KindStreet, Group: GroupGreen, Price: 320, Rents: [6]int{28, 150, 450, 1000, 1200, 1400}, Mortgage: 160},
	{Index: 35, Name: "北郊车站", Kind: KindRail, Group: GroupRail, Price: 200, Mortgage: 100},
	{Index: 36, Name: "机会", Kind: KindChance},
	{Index: 37, Name: "云顶公馆", Kind: KindStreet, Group: GroupBlue, Price: 350, Rents: [6]int{35, 175, 500, 1100, 1300, 1500}, Mortgage: 175},
	{Index: 38, Name: "奢侈税", Kind: KindTax, Tax: 100},
	{Index: 39, Name: "云麓山庄", Kind: KindStreet, Group: GroupBlue, Price: 400, Rents: [6]int{50, 200, 600, 1400, 1700, 2000}, Mortgage: 200},
}

// PropertyBoard 返回地产棋盘
func PropertyBoard() []Space {
	return propertyBoard
}

// SpaceAt 返回指定位置的格子定义
func SpaceAt(index int) *Space {
	return &propertyBoard[index]
}

// HouseCost 返回分组的建房成本
func HouseCost(g Group) int {
	return houseCosts[g]
}

// GroupSize 返回分组的格子数
func GroupSize(g Group) int {
	return groupSizes[g]
}
