package db

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"heunets/internal/core/domain"
	"heunets/internal/core/ports"
)

const (
	workItemsCollection = "workitems"
	usersCollection     = "users"
)

type WorkItemRepository struct {
	workItems *mongo.Collection
}

var _ ports.WorkItemRepository = (*WorkItemRepository)(nil)

func NewWorkItemRepository(database *mongo.Database) *WorkItemRepository {
	return &WorkItemRepository{workItems: database.Collection(workItemsCollection)}
}

type workItemDoc struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	Title           string              `bson:"title"`
	Description     string              `bson:"description"`
	Status          string              `bson:"status"`
	Priority        string              `bson:"priority"`
	CreatedBy       primitive.ObjectID  `bson:"createdBy"`
	CreatedByModel  string              `bson:"createdByModel"`
	AssignedTo      *primitive.ObjectID `bson:"assignedTo,omitempty"`
	AssignedToModel *string             `bson:"assignedToModel,omitempty"`
	Tags            []string            `bson:"tags,omitempty"`
	DueDate         *time.Time          `bson:"dueDate,omitempty"`
	CompletedAt     *time.Time          `bson:"completedAt,omitempty"`
	IsActive        bool                `bson:"isActive"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
	Creator         []userDoc           `bson:"creator,omitempty"`
	Assignee        []userDoc           `bson:"assignee,omitempty"`
}

// sortFields maps API sort keys to document fields. Unknown keys fall back
// to creation time.
var sortFields = map[string]string{
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
	"dueDate":   "dueDate",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

func (r *WorkItemRepository) Insert(ctx context.Context, input domain.CreateWorkItemInput) (string, error) {
	creatorID, err := parseUserID(input.CreatedBy)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	doc := workItemDoc{
		Title:          input.Title,
		Description:    input.Description,
		Status:         string(input.Status),
		Priority:       string(input.Priority),
		CreatedBy:      creatorID,
		CreatedByModel: domain.IdentityModelAdmin,
		Tags:           input.Tags,
		DueDate:        input.DueDate,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if input.AssignedTo != nil {
		assigneeID, err := parseUserID(*input.AssignedTo)
		if err != nil {
			return "", err
		}
		model := domain.IdentityModelAdmin
		doc.AssignedTo = &assigneeID
		doc.AssignedToModel = &model
	}

	result, err := r.workItems.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}

	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *WorkItemRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*domain.WorkItem, error) {
	objectID, err := parseWorkItemID(id)
	if err != nil {
		return nil, err
	}

	match := bson.M{"_id": objectID}
	if !includeDeleted {
		match["isActive"] = true
	}

	pipeline := append(mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}, lookupStages()...)
	cursor, err := r.workItems.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workItemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrWorkItemNotFound
	}

	item := mapDocToWorkItem(docs[0])
	return &item, nil
}

func (r *WorkItemRepository) Find(ctx context.Context, query domain.WorkItemQuery, opts domain.FindOptions) ([]domain.WorkItem, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$sort", Value: buildSort(opts)}},
	}
	if opts.Limit > 0 {
		if opts.Page > 1 {
			pipeline = append(pipeline, bson.D{{Key: "$skip", Value: (opts.Page - 1) * opts.Limit}})
		}
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.Limit}})
	}
	pipeline = append(pipeline, lookupStages()...)

	cursor, err := r.workItems.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workItemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]domain.WorkItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, mapDocToWorkItem(doc))
	}
	return items, nil
}

func (r *WorkItemRepository) Count(ctx context.Context, query domain.WorkItemQuery) (int64, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return 0, err
	}
	return r.workItems.CountDocuments(ctx, filter)
}

func (r *WorkItemRepository) Update(ctx context.Context, id string, input domain.UpdateWorkItemInput) error {
	objectID, err := parseWorkItemID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}

	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Status != nil {
		set["status"] = string(*input.Status)
	}
	if input.Priority != nil {
		set["priority"] = string(*input.Priority)
	}
	if input.AssignedToSet {
		if input.AssignedTo != nil {
			assigneeID, err := parseUserID(*input.AssignedTo)
			if err != nil {
				return err
			}
			set["assignedTo"] = assigneeID
			set["assignedToModel"] = domain.IdentityModelAdmin
		} else {
			unset["assignedTo"] = ""
			unset["assignedToModel"] = ""
		}
	}
	if input.TagsSet {
		set["tags"] = tagsValue(input.Tags)
	}
	if input.DueDateSet {
		if input.DueDate != nil {
			set["dueDate"] = *input.DueDate
		} else {
			unset["dueDate"] = ""
		}
	}
	if input.CompletedAtSet {
		if input.CompletedAt != nil {
			set["completedAt"] = *input.CompletedAt
		} else {
			unset["completedAt"] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.workItems.UpdateOne(ctx, bson.M{"_id": objectID, "isActive": true}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrWorkItemNotFound
	}
	return nil
}

func (r *WorkItemRepository) SoftDelete(ctx context.Context, id string) error {
	return r.setActive(ctx, id, false)
}

func (r *WorkItemRepository) Restore(ctx context.Context, id string) error {
	return r.setActive(ctx, id, true)
}

func (r *WorkItemRepository) setActive(ctx context.Context, id string, active bool) error {
	objectID, err := parseWorkItemID(id)
	if err != nil {
		return err
	}

	result, err := r.workItems.UpdateOne(ctx,
		bson.M{"_id": objectID, "isActive": !active},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrWorkItemNotFound
	}
	return nil
}

func (r *WorkItemRepository) HardDelete(ctx context.Context, id string) error {
	objectID, err := parseWorkItemID(id)
	if err != nil {
		return err
	}

	result, err := r.workItems.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrWorkItemNotFound
	}
	return nil
}

func (r *WorkItemRepository) UpdateMany(ctx context.Context, ids []string, input domain.BulkUpdateInput) (int64, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := parseWorkItemID(id)
		if err != nil {
			return 0, err
		}
		objectIDs = append(objectIDs, objectID)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}

	if input.Status != nil {
		set["status"] = string(*input.Status)
	}
	if input.Priority != nil {
		set["priority"] = string(*input.Priority)
	}
	if input.AssignedToSet {
		if input.AssignedTo != nil {
			assigneeID, err := parseUserID(*input.AssignedTo)
			if err != nil {
				return 0, err
			}
			set["assignedTo"] = assigneeID
			set["assignedToModel"] = domain.IdentityModelAdmin
		} else {
			unset["assignedTo"] = ""
			unset["assignedToModel"] = ""
		}
	}
	if input.TagsSet {
		set["tags"] = tagsValue(input.Tags)
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.workItems.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": objectIDs}, "isActive": true},
		update,
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *WorkItemRepository) DistinctAssignees(ctx context.Context) ([]string, error) {
	values, err := r.workItems.Distinct(ctx, "assignedTo", bson.M{
		"isActive":   true,
		"assignedTo": bson.M{"$exists": true, "$ne": nil},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(values))
	for _, value := range values {
		if objectID, ok := value.(primitive.ObjectID); ok {
			ids = append(ids, objectID.Hex())
		}
	}
	return ids, nil
}

func buildFilter(query domain.WorkItemQuery) (bson.M, error) {
	filter := bson.M{}
	if !query.IncludeDeleted {
		filter["isActive"] = true
	}

	if len(query.Statuses) > 0 {
		filter["status"] = bson.M{"$in": statusStrings(query.Statuses)}
	} else if len(query.ExcludeStatuses) > 0 {
		filter["status"] = bson.M{"$nin": statusStrings(query.ExcludeStatuses)}
	}

	if len(query.Priorities) > 0 {
		priorities := make([]string, 0, len(query.Priorities))
		for _, priority := range query.Priorities {
			priorities = append(priorities, string(priority))
		}
		filter["priority"] = bson.M{"$in": priorities}
	}

	if query.AssignedTo != "" {
		assigneeID, err := parseUserID(query.AssignedTo)
		if err != nil {
			return nil, err
		}
		filter["assignedTo"] = assigneeID
	}

	if query.CreatedBy != "" {
		creatorID, err := parseUserID(query.CreatedBy)
		if err != nil {
			return nil, err
		}
		filter["createdBy"] = creatorID
	}

	if len(query.Tags) > 0 {
		filter["tags"] = bson.M{"$in": query.Tags}
	}

	if query.DueBefore != nil {
		filter["dueDate"] = bson.M{"$lt": *query.DueBefore}
	}

	var and []bson.M
	if query.InvolvedUser != "" {
		userID, err := parseUserID(query.InvolvedUser)
		if err != nil {
			return nil, err
		}
		and = append(and, bson.M{"$or": []bson.M{
			{"createdBy": userID},
			{"assignedTo": userID},
		}})
	}
	if query.Search != "" {
		search := primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"title": search},
			{"description": search},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	return filter, nil
}

func buildSort(opts domain.FindOptions) bson.D {
	field, ok := sortFields[opts.SortBy]
	if !ok {
		field = "createdAt"
	}
	direction := -1
	if opts.SortOrder == domain.SortAsc {
		direction = 1
	}
	// _id tiebreak keeps the order stable across pages.
	return bson.D{{Key: field, Value: direction}, {Key: "_id", Value: direction}}
}

func lookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "createdBy",
			"foreignField": "_id",
			"as":           "creator",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "assignedTo",
			"foreignField": "_id",
			"as":           "assignee",
		}}},
	}
}

func mapDocToWorkItem(doc workItemDoc) domain.WorkItem {
	item := domain.WorkItem{
		ID:             doc.ID.Hex(),
		Title:          doc.Title,
		Description:    doc.Description,
		Status:         domain.WorkItemStatus(doc.Status),
		Priority:       domain.WorkItemPriority(doc.Priority),
		CreatedBy:      doc.CreatedBy.Hex(),
		CreatedByModel: doc.CreatedByModel,
		Tags:           doc.Tags,
		DueDate:        doc.DueDate,
		CompletedAt:    doc.CompletedAt,
		IsActive:       doc.IsActive,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}

	if doc.AssignedTo != nil {
		value := doc.AssignedTo.Hex()
		item.AssignedTo = &value
	}
	if doc.AssignedToModel != nil {
		value := *doc.AssignedToModel
		item.AssignedToModel = &value
	}
	if len(doc.Creator) > 0 {
		user := mapUserDocToUser(doc.Creator[0])
		item.CreatedByUser = &user
	}
	if len(doc.Assignee) > 0 {
		user := mapUserDocToUser(doc.Assignee[0])
		item.AssignedToUser = &user
	}

	return item
}

func statusStrings(statuses []domain.WorkItemStatus) []string {
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
	}
	return values
}

// tagsValue never writes a null tags field; an explicit clear stores an
// empty array.
func tagsValue(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func parseWorkItemID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("Invalid work item ID")
	}
	return objectID, nil
}

func parseUserID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("Invalid user ID")
	}
	return objectID, nil
}
