package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"amberreview/config"
	"amberreview/internal/catalog"
	"amberreview/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mongoURI := cfg.MongoURI
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewPromptRepo(client.Database(cfg.MongoDatabase))
	if err := repo.Seed(ctx, catalog.Default); err != nil {
		log.Fatalf("Failed to seed prompt catalog: %v", err)
	}

	fmt.Printf("Seeded %d prompts into %s\n", len(catalog.Default), cfg.MongoDatabase)
}
