package board

// Sector 行业分类
type Sector string

const (
	SectorTech      Sector = "tech"      // 科技
	SectorEnergy    Sector = "energy"    // 能源
	SectorFinance   Sector = "finance"   // 金融
	SectorRetail    Sector = "retail"    // 零售
	SectorTransport Sector = "transport" // 交通
	SectorMedia     Sector = "media"     // 传媒
)

// AllSectors 全部行业（顺序固定）
var AllSectors = []Sector{
	SectorTech, SectorEnergy, SectorFinance,
	SectorRetail, SectorTransport, SectorMedia,
}

// 产业棋盘常量
const (
	SectorBoardSize     = 36 // 每个行业6家公司，共36格；没有独立的起点格，跨过0号位即视为过起点
	CompaniesPerSector  = 6
	MinCompanyValue     = 20 // 新闻缩放后的公司价值下限
	ControllingSectors  = 3  // 达成“控股”所需完整行业数
	FeeTierBase         = 10 // 过路费档位：基础10%
	FeeTierMajority     = 30 // 同行业持有≥3家：30%
	FeeTierMonopoly     = 100 // 垄断整个行业：100%
	FeeMajorityHoldings = 3
)

// Company 公司定义
type Company struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Sector    Sector `json:"sector"`
	BaseValue int    `json:"baseValue"`
}

// sectorBoard 产业棋盘：行业按区段交错排布，同一行业不相邻成片
var sectorBoard = buildSectorBoard()

// 每个行业的6家公司名与初始价值
var sectorCompanies = map[Sector][]struct {
	Name  string
	Value int
}{
	SectorTech: {
		{"芯联半导体", 220}, {"云启智能", 200}, {"星图软件", 180},
		{"量子通讯", 240}, {"极目光电", 160}, {"数泉科技", 140},
	},
	SectorEnergy: {
		{"北方电力", 200}, {"蓝海石油", 240}, {"风行新能", 180},
		{"旭日光伏", 160}, {"峡谷水电", 220}, {"煤海集团", 140},
	},
	SectorFinance: {
		{"汇通银行", 260}, {"天平保险", 200}, {"鼎信证券", 220},
		{"丰裕基金", 180}, {"恒益信托", 160}, {"小微贷行", 120},
	},
	SectorRetail: {
		{"百乐百货", 180}, {"优选超市", 160}, {"潮集商城", 140},
		{"云购平台", 220}, {"鲜达生鲜", 120}, {"良品集市", 100},
	},
	SectorTransport: {
		{"远洋航运", 220}, {"银翼航空", 240}, {"纵横铁运", 200},
		{"同城快送", 140}, {"顺达物流", 160}, {"环城巴士", 100},
	},
	SectorMedia: {
		{"星光影业", 200}, {"脉动直播", 180}, {"晨风出版", 120},
		{"环球广告", 160}, {"乐响唱片", 140}, {"视界频道", 220},
	},
}

// buildSectorBoard 构建36格棋盘：按行业轮转排布，第i圈放每个行业的第i家公司
func buildSectorBoard() []Company {
	companies := make([]Company, 0, SectorBoardSize)
	for round := 0; round < CompaniesPerSector; round++ {
		for _, sector := range AllSectors {
			def := sectorCompanies[sector][round]
			companies = append(companies, Company{
				Index:     len(companies),
				Name:      def.Name,
				Sector:    sector,
				BaseValue: def.Value,
			})
		}
	}
	return companies
}

// SectorBoard 返回产业棋盘
func SectorBoard() []Company {
	return sectorBoard
}

// CompanyAt 返回指定位置的公司定义
func CompanyAt(index int) *Company {
	return &sectorBoard[index]
}
