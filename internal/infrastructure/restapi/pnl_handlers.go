package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
)

// APIPnLResponse определяет структуру ответа для эндпоинтов PnL.
type APIPnLResponse struct {
	RunID         string                    `json:"run_id"`
	Records       []entity.ReconciledRecord `json:"records"`
	StatusMessage string                    `json:"status_message"`
}

// APIChainsResponse перечисляет сети текущего запуска.
type APIChainsResponse struct {
	Chains []entity.ChainConfig `json:"chains"`
}

// APIErrorResponse is returned when the report could not be built.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// PnLHandler обрабатывает HTTP запросы, связанные с отчётом PnL.
type PnLHandler struct {
	pnlService    port.PnLService
	chainProvider port.ChainProvider
	logger        port.Logger
}

// NewPnLHandler создает новый экземпляр PnLHandler.
func NewPnLHandler(ps port.PnLService, cp port.ChainProvider, logger port.Logger) *PnLHandler {
	return &PnLHandler{
		pnlService:    ps,
		chainProvider: cp,
		logger:        logger,
	}
}

// GetPnLHandler пересчитывает отчёт без записи артефактов.
func (h *PnLHandler) GetPnLHandler(c *gin.Context) {
	report, err := h.pnlService.BuildReport(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build pnl report", "error", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, newPnLResponse(report, "PnL report computed."))
}

// PostRunHandler выполняет полный запуск: отчёт, артефакты и снимок.
func (h *PnLHandler) PostRunHandler(c *gin.Context) {
	report, err := h.pnlService.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("PnL run failed", "error", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, newPnLResponse(report, "PnL run completed, report written."))
}

// GetChainsHandler возвращает список сетей.
func (h *PnLHandler) GetChainsHandler(c *gin.Context) {
	chains := h.chainProvider.GetAllChains()
	if chains == nil {
		chains = []entity.ChainConfig{}
	}
	c.JSON(http.StatusOK, APIChainsResponse{Chains: chains})
}

// GetChainHandler возвращает одну сеть по имени.
func (h *PnLHandler) GetChainHandler(c *gin.Context) {
	name := c.Param("name")
	chain, ok := h.chainProvider.GetChainByName(name)
	if !ok {
		c.JSON(http.StatusNotFound, APIErrorResponse{Error: "unknown chain: " + name})
		return
	}
	c.JSON(http.StatusOK, chain)
}

func newPnLResponse(report entity.PnLReport, okMessage string) APIPnLResponse {
	records := report.Records
	if records == nil {
		records = []entity.ReconciledRecord{}
	}
	msg := okMessage
	if len(records) == 0 {
		msg = "No balances retrieved. Check chain endpoints, wallets and tokens."
	}
	return APIPnLResponse{RunID: report.RunID, Records: records, StatusMessage: msg}
}
