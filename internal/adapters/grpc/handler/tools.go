package handler

import (
	"context"

	"github.com/ogurasousui/jackisa-office/internal/core/grading"
	"github.com/ogurasousui/jackisa-office/internal/core/workday"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const toolsServiceName = "jackisa.tools.v1.ToolsService"

// ToolsServer は ToolsService のサーバーインターフェースです。
type ToolsServer interface {
	CountWorkingDays(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddWorkingDays(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GradeScore(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListGrades(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ToolsServiceDesc は ToolsService のサービス定義です。
var ToolsServiceDesc = serviceDesc(toolsServiceName, "jackisa/tools/v1/tools.proto", (*ToolsServer)(nil),
	unaryMethod(toolsServiceName, "CountWorkingDays", ToolsServer.CountWorkingDays),
	unaryMethod(toolsServiceName, "AddWorkingDays", ToolsServer.AddWorkingDays),
	unaryMethod(toolsServiceName, "GradeScore", ToolsServer.GradeScore),
	unaryMethod(toolsServiceName, "ListGrades", ToolsServer.ListGrades),
)

// RegisterToolsServer は ToolsService を登録します。
func RegisterToolsServer(s grpc.ServiceRegistrar, srv ToolsServer) {
	s.RegisterService(ToolsServiceDesc, srv)
}

// ToolsGrpcHandler は稼働日計算と成績評価の gRPC 実装です。
type ToolsGrpcHandler struct {
	calendar *workday.Calendar
	scale    *grading.Scale
}

// NewToolsGrpcHandler は ToolsGrpcHandler を生成します。nil の場合は既定値を使います。
func NewToolsGrpcHandler(calendar *workday.Calendar, scale *grading.Scale) *ToolsGrpcHandler {
	if calendar == nil {
		calendar = workday.DefaultCalendar()
	}
	if scale == nil {
		scale = grading.DefaultScale()
	}
	return &ToolsGrpcHandler{calendar: calendar, scale: scale}
}

// CountWorkingDays は start_date から end_date まで (両端を含む) の稼働日数を返します。
func (h *ToolsGrpcHandler) CountWorkingDays(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	start, err := f.date("start_date")
	if err != nil {
		return nil, toStatusError(err)
	}
	end, err := f.date("end_date")
	if err != nil {
		return nil, toStatusError(err)
	}

	days, err := h.calendar.CountWorkingDays(start, end)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"working_days": days})
}

// AddWorkingDays は start_date から days 稼働日後の日付を返します。
func (h *ToolsGrpcHandler) AddWorkingDays(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(req)

	start, err := f.date("start_date")
	if err != nil {
		return nil, toStatusError(err)
	}
	days, err := f.int("days")
	if err != nil {
		return nil, toStatusError(err)
	}

	result, err := h.calendar.AddWorkingDays(start, days)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(map[string]any{"date": result.Format(dateLayout)})
}

// GradeScore は点数に対応する評価を返します。
func (h *ToolsGrpcHandler) GradeScore(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	score, err := fieldsOf(req).number("score")
	if err != nil {
		return nil, toStatusError(err)
	}

	grade, err := h.scale.GradeFor(score)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newStruct(gradeFields(grade))
}

// ListGrades は評価基準を返します。
func (h *ToolsGrpcHandler) ListGrades(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	grades := h.scale.Grades()
	items := make([]any, 0, len(grades))
	for _, g := range grades {
		items = append(items, gradeFields(g))
	}
	return newStruct(map[string]any{"grades": items})
}

func gradeFields(g grading.Grade) map[string]any {
	return map[string]any{
		"letter":    g.Letter,
		"min_score": g.MinScore,
		"points":    g.Points,
		"remark":    g.Remark,
	}
}
