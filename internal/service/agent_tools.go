package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-salesbot-be/internal/dto"
	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/internal/repository/contract"
	"ai-salesbot-be/internal/repository/specification"
	"ai-salesbot-be/pkg/llm"
	"ai-salesbot-be/pkg/rag"
)

// ToolRegistry exposes the agent's callable tools and dispatches tool
// calls. Every execution returns a JSON string for the model; failures are
// encoded as error results rather than bubbling up, so a broken tool never
// kills the conversation turn.
type ToolRegistry struct {
	searchEngine  *rag.Engine
	documentRepo  contract.DocumentRepository
	orderRepo     contract.OrderRepository
	memoryService IMemoryService
	log           logger.ILogger
}

func NewToolRegistry(
	searchEngine *rag.Engine,
	documentRepo contract.DocumentRepository,
	orderRepo contract.OrderRepository,
	memoryService IMemoryService,
	log logger.ILogger,
) *ToolRegistry {
	return &ToolRegistry{
		searchEngine:  searchEngine,
		documentRepo:  documentRepo,
		orderRepo:     orderRepo,
		memoryService: memoryService,
		log:           log,
	}
}

func (t *ToolRegistry) Specs() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name:        "knowledge_search",
			Description: "ค้นหาข้อมูลสินค้า สูตร ราคา รีวิว จากฐานความรู้ (hybrid search)",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "คำค้นหา"},
					"top_k": {"type": "integer", "description": "จำนวนผลลัพธ์สูงสุด"},
					"min_price": {"type": "number"},
					"max_price": {"type": "number"},
					"color": {"type": "string"},
					"model": {"type": "string"},
					"min_screen": {"type": "number"},
					"max_screen": {"type": "number"},
					"min_stock": {"type": "integer"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "list_product",
			Description: "แสดงรายการสินค้า พร้อมสต็อกและราคาล่าสุด",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"find": {"type": "string", "description": "กรองด้วยชื่อหรือ SKU (เว้นว่าง = ทั้งหมด)"}
				}
			}`),
		},
		{
			Name:        "create_order",
			Description: "สร้าง order draft เมื่อลูกค้ายืนยันการสั่งซื้อ",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"product_name": {"type": "string"},
					"quantity": {"type": "integer"},
					"total_price": {"type": "number"},
					"customer_name": {"type": "string"},
					"address": {"type": "string"},
					"phone": {"type": "string"}
				},
				"required": ["product_name", "quantity"]
			}`),
		},
		{
			Name:        "get_order",
			Description: "ดูรายละเอียด order draft ตาม id หรือดูทั้งหมดของลูกค้า",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"order_id": {"type": "integer", "description": "0 หรือไม่ระบุ = ทั้งหมด"}
				}
			}`),
		},
		{
			Name:        "delete_order",
			Description: "ยกเลิกและลบ order draft",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"order_id": {"type": "integer"}
				},
				"required": ["order_id"]
			}`),
		},
		{
			Name:        "shipment_status",
			Description: "ตรวจสอบสถานะการจัดส่งของ order",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"order_id": {"type": "integer"}
				},
				"required": ["order_id"]
			}`),
		},
		{
			Name:        "memory_add",
			Description: "บันทึกข้อมูลสำคัญของลูกค้า (ชื่อ, ที่อยู่, สูตรที่สนใจ)",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"text": {"type": "string"}
				},
				"required": ["text"]
			}`),
		},
		{
			Name:        "memory_search",
			Description: "ค้นหาข้อมูลที่เคยจำไว้เกี่ยวกับลูกค้า",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string"},
					"top_k": {"type": "integer"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        "memory_get_all",
			Description: "ดูข้อมูลทั้งหมดที่จำไว้เกี่ยวกับลูกค้า",
			Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
		},
		{
			Name:        "memory_delete",
			Description: "ลบข้อมูลที่ลูกค้าขอให้ลืม",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"memory_id": {"type": "integer"}
				},
				"required": ["memory_id"]
			}`),
		},
	}
}

// Execute dispatches one tool call for the given user. The returned string
// is always valid JSON.
func (t *ToolRegistry) Execute(ctx context.Context, userId string, call llm.ToolCall) string {
	result, err := t.dispatch(ctx, userId, call)
	if err != nil {
		t.log.Warn("tools", "tool call failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		return errorResult(err)
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return errorResult(err)
	}
	return string(encoded)
}

func (t *ToolRegistry) dispatch(ctx context.Context, userId string, call llm.ToolCall) (interface{}, error) {
	switch call.Name {
	case "knowledge_search":
		return t.knowledgeSearch(ctx, call.Arguments)
	case "list_product":
		return t.listProduct(ctx, call.Arguments)
	case "create_order":
		return t.createOrder(ctx, userId, call.Arguments)
	case "get_order":
		return t.getOrder(ctx, userId, call.Arguments)
	case "delete_order":
		return t.deleteOrder(ctx, userId, call.Arguments)
	case "shipment_status":
		return t.shipmentStatus(ctx, call.Arguments)
	case "memory_add":
		return t.memoryAdd(ctx, userId, call.Arguments)
	case "memory_search":
		return t.memorySearch(ctx, userId, call.Arguments)
	case "memory_get_all":
		return t.memoryGetAll(ctx, userId)
	case "memory_delete":
		return t.memoryDelete(ctx, userId, call.Arguments)
	default:
		return nil, fmt.Errorf("unknown tool: %s", call.Name)
	}
}

func errorResult(err error) string {
	encoded, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
	return string(encoded)
}

func (t *ToolRegistry) knowledgeSearch(ctx context.Context, args string) (interface{}, error) {
	var req dto.HybridSearchRequest
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}

	specs := buildSearchSpecs(&req)
	results, err := t.searchEngine.Search(ctx, req.Query, rag.SearchOptions{
		TopK:   req.TopK,
		Specs:  specs,
		Refine: true,
	})
	if err != nil {
		return nil, err
	}

	return dto.HybridSearchResponse{
		Success: true,
		Count:   len(results),
		Results: toSearchResultDTOs(results),
	}, nil
}

// buildSearchSpecs translates request filters into SQL-level
// specifications so they apply before ranking, not after.
func buildSearchSpecs(req *dto.HybridSearchRequest) []specification.Specification {
	specs := []specification.Specification{
		specification.ByCollection{Collection: entity.CollectionKnowledge},
	}
	if req.MinPrice != nil {
		specs = append(specs, specification.MinPrice{Value: *req.MinPrice})
	}
	if req.MaxPrice != nil {
		specs = append(specs, specification.MaxPrice{Value: *req.MaxPrice})
	}
	if req.Color != "" {
		specs = append(specs, specification.ColorLike{Value: req.Color})
	}
	if req.Model != "" {
		specs = append(specs, specification.ModelLike{Value: req.Model})
	}
	if req.MinScreen != nil {
		specs = append(specs, specification.MinScreen{Value: *req.MinScreen})
	}
	if req.MaxScreen != nil {
		specs = append(specs, specification.MaxScreen{Value: *req.MaxScreen})
	}
	if req.MinStock != nil {
		specs = append(specs, specification.MinStock{Value: *req.MinStock})
	}
	return specs
}

func toSearchResultDTOs(results []*rag.Result) []dto.SearchResultDTO {
	out := make([]dto.SearchResultDTO, len(results))
	for i, r := range results {
		d := r.Document
		item := dto.SearchResultDTO{
			Id:         d.Id,
			Text:       d.Text,
			Name:       d.Name,
			Sku:        d.Sku,
			Price:      d.Price,
			Stock:      d.Stock,
			Color:      d.Color,
			Model:      d.Model,
			ScreenSize: d.ScreenSize,
			ImageIds:   d.ImageIds,
			Source:     r.Source,
		}
		if r.Source != rag.SourceSubstring {
			score := r.Score
			item.Score = &score
		}
		out[i] = item
	}
	return out
}

func (t *ToolRegistry) listProduct(ctx context.Context, args string) (interface{}, error) {
	var req struct {
		Find string `json:"find"`
	}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &req); err != nil {
			return nil, fmt.Errorf("bad arguments: %w", err)
		}
	}

	var (
		docs []*entity.Document
		err  error
	)
	collectionSpec := specification.ByCollection{Collection: entity.CollectionKnowledge}
	if req.Find == "" {
		docs, err = t.documentRepo.FindAll(ctx, collectionSpec)
	} else {
		docs, err = t.documentRepo.SearchSubstring(ctx, req.Find, 0, collectionSpec)
	}
	if err != nil {
		return nil, err
	}

	products := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		if d.Name == nil {
			continue
		}
		products = append(products, map[string]interface{}{
			"id":    d.Id,
			"name":  *d.Name,
			"sku":   d.Sku,
			"price": d.Price,
			"stock": d.Stock,
		})
	}
	return map[string]interface{}{
		"success":  true,
		"count":    len(products),
		"products": products,
	}, nil
}

func (t *ToolRegistry) createOrder(ctx context.Context, userId, args string) (interface{}, error) {
	var req struct {
		ProductName  string  `json:"product_name"`
		Quantity     int     `json:"quantity"`
		TotalPrice   float64 `json:"total_price"`
		CustomerName string  `json:"customer_name"`
		Address      string  `json:"address"`
		Phone        string  `json:"phone"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if req.ProductName == "" || req.Quantity <= 0 {
		return nil, fmt.Errorf("product_name and a positive quantity are required")
	}

	order := &entity.OrderDraft{
		UserId:       userId,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		TotalPrice:   req.TotalPrice,
		CustomerName: req.CustomerName,
		Address:      req.Address,
		Phone:        req.Phone,
		Status:       entity.OrderStatusDraft,
	}
	if err := t.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success":  true,
		"order_id": order.Id,
		"status":   order.Status,
	}, nil
}

func (t *ToolRegistry) getOrder(ctx context.Context, userId, args string) (interface{}, error) {
	var req struct {
		OrderId int64 `json:"order_id"`
	}
	if args != "" {
		if err := json.Unmarshal([]byte(args), &req); err != nil {
			return nil, fmt.Errorf("bad arguments: %w", err)
		}
	}

	if req.OrderId == 0 {
		orders, err := t.orderRepo.FindByUserId(ctx, userId)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"success": true, "orders": orders}, nil
	}

	order, err := t.orderRepo.FindById(ctx, req.OrderId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserId != userId {
		return map[string]interface{}{"success": false, "error": "order not found"}, nil
	}
	return map[string]interface{}{"success": true, "order": order}, nil
}

func (t *ToolRegistry) deleteOrder(ctx context.Context, userId, args string) (interface{}, error) {
	var req struct {
		OrderId int64 `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}

	order, err := t.orderRepo.FindById(ctx, req.OrderId)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserId != userId {
		return map[string]interface{}{"success": false, "error": "order not found"}, nil
	}
	if err := t.orderRepo.Delete(ctx, req.OrderId); err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": true, "deleted": req.OrderId}, nil
}

func (t *ToolRegistry) shipmentStatus(ctx context.Context, args string) (interface{}, error) {
	var req struct {
		OrderId int64 `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}

	order, err := t.orderRepo.FindById(ctx, req.OrderId)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return map[string]interface{}{"success": false, "error": "order not found"}, nil
	}
	return map[string]interface{}{
		"success":     true,
		"order_id":    order.Id,
		"status":      order.Status,
		"tracking_no": order.TrackingNo,
	}, nil
}

func (t *ToolRegistry) memoryAdd(ctx context.Context, userId, args string) (interface{}, error) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if req.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	doc, err := t.memoryService.Add(ctx, userId, req.Text)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": true, "memory_id": doc.Id}, nil
}

func (t *ToolRegistry) memorySearch(ctx context.Context, userId, args string) (interface{}, error) {
	var req struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	scored, err := t.memoryService.Search(ctx, userId, req.Query, req.TopK)
	if err != nil {
		return nil, err
	}

	memories := make([]map[string]interface{}, len(scored))
	for i, s := range scored {
		memories[i] = map[string]interface{}{
			"id":    s.Document.Id,
			"text":  s.Document.Text,
			"score": s.Similarity,
		}
	}
	return map[string]interface{}{"success": true, "memories": memories}, nil
}

func (t *ToolRegistry) memoryGetAll(ctx context.Context, userId string) (interface{}, error) {
	docs, err := t.memoryService.GetAll(ctx, userId)
	if err != nil {
		return nil, err
	}
	memories := make([]map[string]interface{}, len(docs))
	for i, d := range docs {
		memories[i] = map[string]interface{}{
			"id":   d.Id,
			"text": d.Text,
		}
	}
	return map[string]interface{}{"success": true, "memories": memories}, nil
}

func (t *ToolRegistry) memoryDelete(ctx context.Context, userId, args string) (interface{}, error) {
	var req struct {
		MemoryId int64 `json:"memory_id"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return nil, fmt.Errorf("bad arguments: %w", err)
	}
	if err := t.memoryService.Delete(ctx, userId, req.MemoryId); err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": true, "deleted": req.MemoryId}, nil
}
