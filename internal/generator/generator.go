package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/lottrace/internal/domain"
	"github.com/vanshika/lottrace/internal/service"
)

const harvestWindowDays = 180

// Dataset contains the generated nodes, lots and movements.
type Dataset struct {
	Nodes     []service.NodeInput     `json:"nodes"`
	Lots      []service.LotInput      `json:"lots"`
	Movements []service.MovementInput `json:"movements"`
}

// Generator produces a synthetic shrimp supply chain.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance. Shares and chances are used as
// given, so a zero disables them; start from DefaultConfig for the demo mix.
func New(cfg Config) *Generator {
	if cfg.NumLots <= 0 {
		cfg.NumLots = DefaultConfig().NumLots
	}
	if cfg.Anchor.IsZero() {
		cfg.Anchor = time.Now().UTC()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises the dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var ds Dataset
	collectors := g.addNodes(&ds, "COL", "COLLECTOR", collectorNames)
	processors := g.addNodes(&ds, "PRC", "PROCESSOR", processorNames)
	exporters := g.addNodes(&ds, "EXP", "EXPORTER", exporterNames)
	farms := g.addNodes(&ds, "FARM", "FARM", farmNames)

	statuses := g.statuses()
	windowStart := g.cfg.Anchor.Add(-harvestWindowDays * 24 * time.Hour)

	for i := 0; i < g.cfg.NumLots; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		lotID := fmt.Sprintf("LOT-2024-%04d", i+1)
		status := statuses[i]
		harvest := windowStart.AddDate(0, 0, 1+g.rand.Intn(harvestWindowDays)).Truncate(24 * time.Hour)

		lot := service.LotInput{
			ID:        lotID,
			Status:    string(status),
			Creator:   "demo",
			CreatedAt: &harvest,
		}
		if status != domain.LotStatusOK {
			lot.Contamination = contaminationTypes[g.rand.Intn(len(contaminationTypes))]
		}
		ds.Lots = append(ds.Lots, lot)

		farm := pick(g.rand, farms)
		collector := pick(g.rand, collectors)
		processor := pick(g.rand, processors)

		ds.Movements = append(ds.Movements,
			service.MovementInput{
				ID:        movementID(lotID, 1),
				LotID:     lotID,
				From:      farm,
				To:        collector,
				Timestamp: harvest.Add(time.Duration(6+g.rand.Intn(19)) * time.Hour),
			},
			service.MovementInput{
				ID:        movementID(lotID, 2),
				LotID:     lotID,
				From:      collector,
				To:        processor,
				Timestamp: harvest.Add(time.Duration(25+g.rand.Intn(48)) * time.Hour),
			},
		)

		if status == domain.LotStatusOK && g.rand.Float64() < g.cfg.ExportChance {
			ds.Movements = append(ds.Movements, service.MovementInput{
				ID:        movementID(lotID, 3),
				LotID:     lotID,
				From:      processor,
				To:        pick(g.rand, exporters),
				Timestamp: harvest.Add(time.Duration(73+g.rand.Intn(96)) * time.Hour),
			})
		}
	}

	return ds, nil
}

func (g *Generator) addNodes(ds *Dataset, prefix, nodeType string, names []string) []domain.NodeID {
	ids := make([]domain.NodeID, 0, len(names))
	for i, name := range names {
		id := domain.NodeID(fmt.Sprintf("%s-%02d", prefix, i+1))
		ds.Nodes = append(ds.Nodes, service.NodeInput{ID: id, Name: name, Type: nodeType})
		ids = append(ids, id)
	}
	return ids
}

// statuses returns a shuffled status per lot with the configured shares.
func (g *Generator) statuses() []domain.LotStatus {
	n := g.cfg.NumLots
	hold := int(float64(n) * g.cfg.HoldShare)
	investigate := int(float64(n) * g.cfg.InvestigateShare)
	if hold+investigate > n {
		investigate = n - hold
	}

	out := make([]domain.LotStatus, 0, n)
	for i := 0; i < hold; i++ {
		out = append(out, domain.LotStatusHold)
	}
	for i := 0; i < investigate; i++ {
		out = append(out, domain.LotStatusInvestigate)
	}
	for len(out) < n {
		out = append(out, domain.LotStatusOK)
	}
	g.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// movementID is stable per lot and leg so re-ingesting a dataset updates the
// same movements.
func movementID(lotID string, leg int) string {
	return fmt.Sprintf("%s-%d", lotID, leg)
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

var collectorNames = []string{
	"Pengumpul Jaya",
	"Pengumpul Sentosa",
	"Pengumpul Makmur",
	"Pengumpul Bahari",
	"Pengumpul Nusantara",
}

var processorNames = []string{
	"PT Sumber Jaya Processing",
	"PT Mandiri Seafood",
	"PT Bahari Prima",
	"PT Ocean Fresh",
	"PT Sentosa Marine",
}

var exporterNames = []string{
	"PT Global Shrimp Export",
	"PT Indo Marine Export",
	"PT Nusantara Seafood",
	"PT Asia Pacific Shrimp",
}

var farmNames = []string{
	"Tambak Jaya Abadi",
	"Tambak Sentosa Mulya",
	"Tambak Makmur Sejahtera",
	"Tambak Bahari Nusantara",
	"Tambak Mina Lestari",
	"Tambak Rejeki Nusantara",
	"Tambak Sumber Rezeki",
	"Tambak Putra Mandiri",
	"Tambak Karya Utama",
	"Tambak Berkah Jaya",
	"Tambak Tirta Bahari",
	"Tambak Laut Biru",
	"Tambak Samudra Jaya",
	"Tambak Pantai Indah",
	"Tambak Bintang Laut",
}

var contaminationTypes = []string{
	"Cesium tinggi",
	"Timbal (Pb) melebihi batas",
	"Kadmium terdeteksi",
	"Merkuri tinggi",
	"TPC melebihi standar",
	"Salmonella terdeteksi",
	"E.coli positif",
	"Antibiotik terdeteksi",
	"Formalin terdeteksi",
	"Warna tidak normal",
}
