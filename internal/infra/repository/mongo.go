package repository

import (
	"context"
	"errors"
	"fmt"

	"patient-context/internal/domain/entities"
	"patient-context/internal/domain/interfaces/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPatientRepository stores one document per patient. Conversations and
// chat history are embedded arrays mutated with $push and positional $set.
type MongoPatientRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ repository.PatientRepository = (*MongoPatientRepository)(nil)

func NewMongoPatientRepository(client *mongo.Client, database, collection string) *MongoPatientRepository {
	return &MongoPatientRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the unique index on the patient id.
func (r *MongoPatientRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("patient_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create patient id index: %w", err)
	}
	return nil
}

func (r *MongoPatientRepository) Create(ctx context.Context, patient entities.Patient) error {
	if patient.Conversations == nil {
		patient.Conversations = []entities.Conversation{}
	}
	if patient.ChatHistory == nil {
		patient.ChatHistory = []entities.ChatMessage{}
	}
	for i := range patient.Conversations {
		if patient.Conversations[i].Messages == nil {
			patient.Conversations[i].Messages = []entities.TranscriptLine{}
		}
	}

	if _, err := r.collection.InsertOne(ctx, patient); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("patient id %s already exists: %w", patient.ID, err)
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *MongoPatientRepository) FindByID(ctx context.Context, patientID string) (entities.Patient, error) {
	var patient entities.Patient
	err := r.collection.FindOne(ctx, bson.M{"id": patientID}).Decode(&patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Patient{}, repository.ErrPatientNotFound
	}
	if err != nil {
		return entities.Patient{}, fmt.Errorf("find patient: %w", err)
	}
	return patient, nil
}

func (r *MongoPatientRepository) AppendConversation(ctx context.Context, patientID string, conversation entities.Conversation) error {
	if conversation.Messages == nil {
		conversation.Messages = []entities.TranscriptLine{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": patientID},
		bson.M{"$push": bson.M{"conversations": conversation}},
	)
	if err != nil {
		return fmt.Errorf("append conversation: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrPatientNotFound
	}
	return nil
}

// AppendConversationIfEmpty pushes only when conversations has no first
// element, so concurrent callers create at most one conversation.
func (r *MongoPatientRepository) AppendConversationIfEmpty(ctx context.Context, patientID string, conversation entities.Conversation) (bool, error) {
	if conversation.Messages == nil {
		conversation.Messages = []entities.TranscriptLine{}
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": patientID, "conversations.0": bson.M{"$exists": false}},
		bson.M{"$push": bson.M{"conversations": conversation}},
	)
	if err != nil {
		return false, fmt.Errorf("append first conversation: %w", err)
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	if err := r.exists(ctx, patientID); err != nil {
		return false, err
	}
	return false, nil
}

func (r *MongoPatientRepository) SetConversationSummary(ctx context.Context, patientID, conversationID, summary string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": patientID, "conversations.id": conversationID},
		bson.M{"$set": bson.M{"conversations.$.summary": summary}},
	)
	if err != nil {
		return fmt.Errorf("set conversation summary: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	if err := r.exists(ctx, patientID); err != nil {
		return err
	}
	return repository.ErrConversationNotFound
}

func (r *MongoPatientRepository) AppendChatMessages(ctx context.Context, patientID string, messages ...entities.ChatMessage) error {
	if len(messages) == 0 {
		return r.exists(ctx, patientID)
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"id": patientID},
		bson.M{"$push": bson.M{"chat_history": bson.M{"$each": messages}}},
	)
	if err != nil {
		return fmt.Errorf("append chat messages: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrPatientNotFound
	}
	return nil
}

func (r *MongoPatientRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoPatientRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoPatientRepository) exists(ctx context.Context, patientID string) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"id": patientID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count patient: %w", err)
	}
	if n == 0 {
		return repository.ErrPatientNotFound
	}
	return nil
}
