package board

// NewsKind 快讯类型（封闭集合；行业危机对过路费有专门的倍率规则）
type NewsKind int

const (
	NewsBoom     NewsKind = iota // 行业利好
	NewsSlump                    // 行业走弱
	NewsCrisis                   // 行业危机（能源过路费+50%，零售-10%）
	NewsHoliday                  // 全民假日（受影响行业免收过路费）
	NewsDividend                 // 派发分红
	NewsLevy                     // 征收维护费
)

// NewsEvent 快讯定义。ValueFactor 对受影响行业的每家公司现值做乘法缩放
// （下限 MinCompanyValue）；CashEffect 直接作用于受影响公司当前持有者的现金，
// 正为分红、负为维护费。SuppressFees 生效期间该行业不收过路费。
type NewsEvent struct {
	Headline     string   `json:"headline"`
	Kind         NewsKind `json:"kind"`
	Sectors      []Sector `json:"sectors"`
	ValueFactor  float64  `json:"valueFactor"`
	CashEffect   int      `json:"cashEffect,omitempty"`
	SuppressFees bool     `json:"suppressFees,omitempty"`
}

// newsCatalog 快讯目录，回合结束随机抽取一条
var newsCatalog = []NewsEvent{
	{Headline: "AI突破带动芯片需求暴涨", Kind: NewsBoom, Sectors: []Sector{SectorTech}, ValueFactor: 1.3},
	{Headline: "新型电池量产，能源股全线上扬", Kind: NewsBoom, Sectors: []Sector{SectorEnergy}, ValueFactor: 1.25},
	{Headline: "央行降息，金融板块受益", Kind: NewsBoom, Sectors: []Sector{SectorFinance}, ValueFactor: 1.2},
	{Headline: "购物节创纪录，零售迎来旺季", Kind: NewsBoom, Sectors: []Sector{SectorRetail}, ValueFactor: 1.2, CashEffect: 30},
	{Headline: "黄金周出行火爆", Kind: NewsBoom, Sectors: []Sector{SectorTransport, SectorMedia}, ValueFactor: 1.15},
	{Headline: "数据造假丑闻冲击科技板块", Kind: NewsSlump, Sectors: []Sector{SectorTech}, ValueFactor: 0.8},
	{Headline: "监管收紧，金融股承压", Kind: NewsSlump, Sectors: []Sector{SectorFinance}, ValueFactor: 0.75},
	{Headline: "流媒体大战烧钱，传媒估值下调", Kind: NewsSlump, Sectors: []Sector{SectorMedia}, ValueFactor: 0.7},
	{Headline: "油价震荡引发能源危机", Kind: NewsCrisis, Sectors: []Sector{SectorEnergy, SectorRetail}, ValueFactor: 0.85},
	{Headline: "全民假日，商户歇业让利", Kind: NewsHoliday, Sectors: []Sector{SectorRetail, SectorTransport}, ValueFactor: 1.0, SuppressFees: true},
	{Headline: "行业协会派发年度分红", Kind: NewsDividend, Sectors: []Sector{SectorFinance, SectorTech}, ValueFactor: 1.0, CashEffect: 50},
	{Headline: "环保改造令：能源企业缴纳维护费", Kind: NewsLevy, Sectors: []Sector{SectorEnergy}, ValueFactor: 0.9, CashEffect: -30},
	{Headline: "物流罢工，运力骤降", Kind: NewsSlump, Sectors: []Sector{SectorTransport}, ValueFactor: 0.8, CashEffect: -20},
	{Headline: "爆款剧集带飞传媒板块", Kind: NewsBoom, Sectors: []Sector{SectorMedia}, ValueFactor: 1.35},
}

// NewsCatalog 返回快讯目录
func NewsCatalog() []NewsEvent {
	return newsCatalog
}
