package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/paye"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const payrollServiceName = "jackisa.payroll.v1.PayrollService"

// PayrollServer は PayrollService のサーバーインターフェースです。
type PayrollServer interface {
	CalculatePAYE(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSchedule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// PayrollServiceDesc は PayrollService のサービス定義です。
var PayrollServiceDesc = serviceDesc(payrollServiceName, "jackisa/payroll/v1/payroll.proto", (*PayrollServer)(nil),
	unaryMethod(payrollServiceName, "CalculatePAYE", PayrollServer.CalculatePAYE),
	unaryMethod(payrollServiceName, "GetSchedule", PayrollServer.GetSchedule),
)

// RegisterPayrollServer は PayrollService を登録します。
func RegisterPayrollServer(s grpc.ServiceRegistrar, srv PayrollServer) {
	s.RegisterService(PayrollServiceDesc, srv)
}

// PayrollGrpcHandler は PayrollService の gRPC 実装です。
type PayrollGrpcHandler struct {
	svc paye.UseCase
}

// NewPayrollGrpcHandler は PayrollGrpcHandler を生成します。
func NewPayrollGrpcHandler(svc paye.UseCase) *PayrollGrpcHandler {
	return &PayrollGrpcHandler{svc: svc}
}

// CalculatePAYE は総支給額から PAYE の内訳を計算します。
func (h *PayrollGrpcHandler) CalculatePAYE(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gross, err := fieldsOf(req).number("gross_salary")
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.svc.CalculatePAYE(ctx, paye.CalculatePAYEInput{GrossSalary: gross})
	if err != nil {
		return nil, toStatusError(err)
	}

	bands := make([]any, 0, len(result.Bands))
	for _, b := range result.Bands {
		bands = append(bands, map[string]any{
			"label":          b.Label,
			"taxable_amount": b.TaxableAmount,
			"rate":           b.Rate,
			"tax":            b.Tax,
		})
	}

	return newStruct(map[string]any{
		"gross_salary":   result.GrossSalary,
		"contribution":   result.Contribution,
		"taxable_income": result.TaxableIncome,
		"bands":          bands,
		"total_tax":      result.TotalTax,
		"net_pay":        result.NetPay,
	})
}

// GetSchedule は計算に使われている税率表を返します。上限のない区分の upper は null です。
func (h *PayrollGrpcHandler) GetSchedule(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	schedule, err := h.svc.GetSchedule(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	bands := make([]any, 0, len(schedule.Bands()))
	for _, b := range schedule.Bands() {
		var upper any
		if !b.Unbounded() {
			upper = b.Upper
		}
		bands = append(bands, map[string]any{
			"label": b.Label,
			"lower": b.Lower,
			"upper": upper,
			"rate":  b.Rate,
		})
	}

	return newStruct(map[string]any{
		"contribution_rate": schedule.ContributionRate(),
		"bands":             bands,
	})
}
