package controllers

import "github.com/printipid/printipid/pkg/resource"

// orderSummaryResource is the admin list shape for orders: everything the
// dashboard table needs, minus the inline base64 documents which can be
// megabytes per order. Detail endpoints return the full document.
type orderSummaryResource struct {
	resource.Base
}

func (orderSummaryResource) ToArray(v interface{}) resource.Map {
	o, ok := v.(map[string]interface{})
	if !ok {
		return resource.Map{}
	}

	out := resource.Map{
		"orderId":       o["orderId"],
		"userId":        o["userId"],
		"customerName":  o["customerName"],
		"customerEmail": o["customerEmail"],
		"status":        o["status"],
		"totalAmount":   o["totalAmount"],
		"version":       o["version"],
		"createdAt":     o["createdAt"],
		"updatedAt":     o["updatedAt"],
	}

	if p, ok := o["payment"].(map[string]interface{}); ok {
		out["payment"] = resource.Map{
			"paymentMethod": p["paymentMethod"],
			"amount":        p["amount"],
			"status":        p["status"],
			"referenceNo":   p["referenceNo"],
			"receiptUrl":    p["receiptUrl"],
		}
	}

	if docs, ok := o["documents"].([]interface{}); ok {
		out["documentCount"] = len(docs)
	}

	return out
}
