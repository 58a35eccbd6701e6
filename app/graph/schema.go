// Package graph exposes a read-only GraphQL endpoint for admin reporting.
// It covers ad-hoc queries the REST dashboard does not: filtered order lists
// with field selection, and the stats aggregate.
package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/app/services"
	pkggraphql "github.com/printipid/printipid/pkg/graphql"
)

var documentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Document",
	Fields: graphql.Fields{
		"documentId": &graphql.Field{Type: graphql.String},
		"fileName":   &graphql.Field{Type: graphql.String},
		"fileSize":   &graphql.Field{Type: graphql.Int},
		"uploadedAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var paymentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Payment",
	Fields: graphql.Fields{
		"paymentMethod": &graphql.Field{Type: graphql.String},
		"amount":        &graphql.Field{Type: graphql.Float},
		"status":        &graphql.Field{Type: graphql.String},
		"referenceNo":   &graphql.Field{Type: graphql.String},
		"receiptUrl":    &graphql.Field{Type: graphql.String},
	},
})

var statusEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StatusEntry",
	Fields: graphql.Fields{
		"status":    &graphql.Field{Type: graphql.String},
		"updatedBy": &graphql.Field{Type: graphql.String},
		"remarks":   &graphql.Field{Type: graphql.String},
		"timestamp": &graphql.Field{Type: graphql.DateTime},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"orderId": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).ID, nil
			},
		},
		"userId": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).UserID, nil
			},
		},
		"customerName": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).CustomerName, nil
			},
		},
		"customerEmail": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).CustomerEmail, nil
			},
		},
		"status": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(models.Order).Status), nil
			},
		},
		"totalAmount": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).TotalAmount, nil
			},
		},
		"version": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return int(p.Source.(models.Order).Version), nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.DateTime,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).CreatedAt, nil
			},
		},
		"documents": &graphql.Field{
			Type: graphql.NewList(documentType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).Documents, nil
			},
		},
		"payment": &graphql.Field{
			Type: paymentType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).Payment, nil
			},
		},
		"statusHistory": &graphql.Field{
			Type: graphql.NewList(statusEntryType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Order).StatusHistory, nil
			},
		},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"totalOrders":      &graphql.Field{Type: graphql.Int},
		"completedOrders":  &graphql.Field{Type: graphql.Int},
		"processingOrders": &graphql.Field{Type: graphql.Int},
		"pendingPayments":  &graphql.Field{Type: graphql.Int},
		"pendingAmount":    &graphql.Field{Type: graphql.Float},
		"paidOrders":       &graphql.Field{Type: graphql.Int},
		"totalSales":       &graphql.Field{Type: graphql.Float},
		"dailySales":       &graphql.Field{Type: graphql.Float},
		"todayOrderCount":  &graphql.Field{Type: graphql.Int},
		"activeOrders":     &graphql.Field{Type: graphql.Int},
	},
})

// NewSchema builds the admin reporting schema on top of the order store.
func NewSchema(orders services.OrderStore) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, _ := p.Args["status"].(string)
					return orders.All(p.Context, status)
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return orders.FindByID(p.Context, p.Args["id"].(string))
				},
			},
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					all, err := orders.All(p.Context, "")
					if err != nil {
						return nil, err
					}
					return services.ComputeStats(all, time.Now()), nil
				},
			},
		},
	})

	return pkggraphql.NewSchema(rootQuery)
}
