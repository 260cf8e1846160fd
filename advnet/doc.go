// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package advnet provides the feed-forward surrogate network used by the
// physics-informed learning pipeline.
//
// A Network owns three independently shaped tanh multilayer perceptrons
// (P, Q and T) built from the layers_P, layers_Q and layers_T
// hyperparameters. Model P is the surrogate that Fit trains and Predict
// evaluates; Q and T are built and persisted alongside it for the
// pipeline's adversarial terms.
//
// Training runs tf_epochs full-batch steps of Adam on the mean squared
// error between model P's predictions and the targets:
//
//	hp, err := config.Load("hp.yaml")
//	net, err := advnet.New(hp, trainlog.New(nil, hp.LogFrequency), ub, lb)
//	err = net.Fit(ctx, X, u)
//	uPred, err := net.Predict(XStar)
//
// Weights, SetWeights and LossAndFlatGrad expose model P as a single flat
// parameter vector, the interface a second-order optimizer such as L-BFGS
// needs.
package advnet
